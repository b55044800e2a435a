package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mfourati/ordersync/internal/service"
)

type contextKey int

const (
	contextKeyAdminLogin contextKey = iota
)

// Auth verifies the admin token from the auth cookie or the
// Authorization header and stores the login in the request context.
func Auth(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ""
			if cookie, err := r.Cookie("auth_token"); err == nil {
				tokenString = cookie.Value
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenString = strings.TrimPrefix(h, "Bearer ")
			}
			if tokenString == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			payload, err := ts.VerifyToken(tokenString)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyAdminLogin, payload.Login)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminLogin extracts the authenticated admin login from the context.
func AdminLogin(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(contextKeyAdminLogin).(string)
	return login, ok
}
