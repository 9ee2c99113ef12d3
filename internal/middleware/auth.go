package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/configs"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/httputil"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/models"
	"github.com/udayasri-pagilla/refferal-credict-system-fixed/internal/store"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFrom returns the authenticated user attached by Authenticated.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userContextKey).(*models.User)
	return u, ok
}

// Authenticated verifies the bearer token, loads the user it names and
// attaches it to the request context. Every failure path returns the
// same 401 body; callers learn nothing about which check failed.
func Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(configs.AppConfig.JWT.SECRET), nil
		})
		if err != nil || !token.Valid {
			unauthorized(w)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(w)
			return
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			unauthorized(w)
			return
		}

		var user models.User
		if err := store.DB.First(&user, uint64(sub)).Error; err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUser attaches a user to the context; test hook for handlers.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func unauthorized(w http.ResponseWriter) {
	httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
}
