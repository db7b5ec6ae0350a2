package authmiddleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	jwtmid "github.com/zanzhit/mediasite_scheduler/internal/lib/jwt"
)

type contextKey string

const (
	OperatorContextKey contextKey = "operator"
)

func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			operator, err := jwtmid.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), OperatorContextKey, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func Operator(ctx context.Context) (models.Operator, bool) {
	operator, ok := ctx.Value(OperatorContextKey).(models.Operator)

	return operator, ok
}
