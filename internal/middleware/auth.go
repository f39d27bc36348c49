package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/radif/imagemeta/internal/response"
)

// RequireAuth returns middleware that validates an HS256 Bearer JWT signed
// with secret. The token subject is recorded for the Logger middleware. An
// empty secret disables the check.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Write(w, response.Unauthorized("Authorization header required"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Write(w, response.Unauthorized("Invalid authorization header format"))
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				response.Write(w, response.Unauthorized("Invalid or expired token"))
				return
			}

			sub, _ := token.Claims.GetSubject()
			setSubject(r.Context(), sub)
			next.ServeHTTP(w, r)
		})
	}
}
