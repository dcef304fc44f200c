package routes

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuth guards the API with a single operator credential. The password
// is configured as a bcrypt hash, never in the clear.
type BasicAuth struct {
	User         string
	PasswordHash string
}

// Middleware rejects requests without a valid basic-auth credential.
func (a *BasicAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(a.User)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="checktwfriends"`)
			http.Error(w, `{"status": 401, "error_msg": "You are not authorized to use this resource!"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
