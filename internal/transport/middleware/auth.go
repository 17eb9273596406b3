package middleware

import (
	"net/http"
	"strings"

	"github.com/greenplate/foodsafe-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (int64, error)
}

// Identity resolves an optional user identity from an Authorization bearer
// token. No token means the request proceeds anonymously and evaluation will
// return empty warnings. A token that is present but fails validation is a
// 401: a caller who thinks they are personalized must never silently get the
// anonymous result.
func Identity(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := validator.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxutil.WithUserID(r.Context(), userID)))
		})
	}
}

// bearerToken extracts the credential from a "Bearer <token>" header value.
// Other schemes and empty headers report ok=false; the empty credential
// "Bearer " reports ok=true so it fails validation instead of passing as
// anonymous.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
