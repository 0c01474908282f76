package domain

import "github.com/golang-jwt/jwt/v5"

// CustomClaims: claims токена, с которым источники данных отправляют контракты.
type CustomClaims struct {
	UserID string          `json:"user_id"`
	Scopes map[string]bool `json:"scopes"` // "admin": true или "contracts.write": true
	jwt.RegisteredClaims
}

// HasScope: admin подразумевает любые права.
func (c *CustomClaims) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	return c.Scopes["admin"] || c.Scopes[scope]
}
