package middleware

import (
	"net/http"
	"strings"

	"github.com/jayjaytrn/grocemate/internal/auth"
	"github.com/jayjaytrn/grocemate/models"
	"go.uber.org/zap"
)

const (
	HeaderUUID = "UUID"
	HeaderRole = "Role"
)

// ValidateAuth checks the bearer token and passes the caller's id and role
// to the handler in the UUID and Role request headers.
func ValidateAuth(secret string) Middleware {
	return func(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Del(HeaderUUID)
			r.Header.Del(HeaderRole)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeMessage(w, http.StatusUnauthorized, "Authorization header is missing")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeMessage(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			claims, err := auth.ValidateJWT(secret, tokenString)
			if err != nil {
				sugar.Debugw("invalid token", "error", err)
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			r.Header.Set(HeaderUUID, claims.UUID)
			r.Header.Set(HeaderRole, string(claims.Role))

			h.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin must run inside ValidateAuth.
func RequireAdmin(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if models.Role(r.Header.Get(HeaderRole)) != models.RoleAdmin {
			sugar.Infow("admin access denied", "uuid", r.Header.Get(HeaderUUID), "path", r.URL.Path)
			writeMessage(w, http.StatusForbidden, "Admin access required")
			return
		}

		h.ServeHTTP(w, r)
	})
}
