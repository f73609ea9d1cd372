package middleware

import (
	"net/http"
	"strings"

	"github.com/BuzzLyutic/taskhub-api/internal/auth"
	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/pkg/respond"
)

type AccessParser interface {
	ParseAccess(token string) (*auth.Claims, error)
}

// Authenticate resolves an optional bearer access token into the request's
// caller. Requests without a token continue as anonymous; a bad token is 401.
func Authenticate(tokens AccessParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				respond.Error(w, r, http.StatusUnauthorized, "Authorization header must contain two space-delimited values")
				return
			}
			claims, err := tokens.ParseAccess(strings.TrimSpace(token))
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "Given token not valid for any token type")
				return
			}
			ctx := auth.WithCaller(r.Context(), model.Caller{UserID: claims.UserID(), Username: claims.Username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.CallerFrom(r.Context()).Authenticated() {
			respond.Error(w, r, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
