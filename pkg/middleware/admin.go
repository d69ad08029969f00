package middleware

import (
	"crypto/subtle"
	"net/http"

	"smartstayz/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuth protects the admin API with HTTP Basic auth. The password
// is checked against a bcrypt hash from config so no plaintext secret
// lives in the environment.
func AdminAuth(username, passwordHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
				bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) != nil {
				logger.Warn("Admin auth failed",
					zap.String("user", user),
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				utils.ResponseUnauthorized(w, "Invalid credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
