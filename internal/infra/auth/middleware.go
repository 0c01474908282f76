package auth

import (
	"context"
	"net/http"

	"github.com/xela07ax/bizdash/internal/domain"
	"go.uber.org/zap"
)

// TokenValidator: проверка токена, который присылает источник данных
type TokenValidator interface {
	VerifyToken(tokenStr string) (*domain.CustomClaims, error)
}

type ctxKey struct{}

// ClaimsFromContext достаёт claims, положенные Middleware.
func ClaimsFromContext(ctx context.Context) (*domain.CustomClaims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*domain.CustomClaims)
	return claims, ok
}

// NewMiddleware пропускает запрос только с валидным токеном и нужным scope.
// Пустой scope: достаточно валидного токена.
func NewMiddleware(v TokenValidator, scope string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := v.VerifyToken(authHeader)
			if err != nil {
				logger.Warn("auth failure", zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if scope != "" && !claims.HasScope(scope) {
				logger.Warn("scope denied",
					zap.String("user_id", claims.UserID),
					zap.String("scope", scope))
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
