package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xela07ax/bizdash/internal/domain"
	"github.com/xela07ax/bizdash/internal/infra"
)

// ErrNoSource: токен подписан верно, но не говорит, какой источник шлёт данные.
var ErrNoSource = errors.New("token has no source identity")

// SourceValidator проверяет токены источников данных (ERP-коннекторы, агенты).
// Подпись только RS*, exp обязателен, iss/aud сверяются, если заданы в AuthConfig.
type SourceValidator struct {
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

func NewSourceValidator(pubKey *rsa.PublicKey, cfg infra.AuthConfig) *SourceValidator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodRS256.Alg(),
			jwt.SigningMethodRS384.Alg(),
			jwt.SigningMethodRS512.Alg(),
		}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &SourceValidator{publicKey: pubKey, parser: jwt.NewParser(opts...)}
}

// VerifyToken реализует TokenValidator.
// Принимает как "Bearer <jwt>", так и голый токен.
func (v *SourceValidator) VerifyToken(tokenStr string) (*domain.CustomClaims, error) {
	tokenStr = strings.TrimSpace(strings.TrimPrefix(tokenStr, "Bearer "))

	token, err := v.parser.ParseWithClaims(tokenStr, &domain.CustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*domain.CustomClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	// Старые коннекторы кладут идентичность только в sub
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrNoSource
	}
	return claims, nil
}

// ParseRSAPublicKey превращает []byte в объект для проверки подписи
func ParseRSAPublicKey(data []byte) (*rsa.PublicKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("public key data is empty")
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return key, nil
}
