package middlewares

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
)

// Admin middleware checks for the 'admin' role in an OAuth token and, when
// isAdmin is given, for a username on the admin allow-list.
func Admin(secret string, isAdmin func(username string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), admin(isAdmin)).Handler(next)
	}
}

func admin(isAdmin func(string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)

			hasRole := false
			if rolesClaim, ok := claims["roles"]; ok {
				roles := strings.Split(rolesClaim, ",")
				for _, role := range roles {
					if role == "admin" {
						hasRole = true
						break
					}
				}
			}
			if hasRole && isAdmin != nil {
				username, _ := r.Context().Value(oauth.CredentialContext).(string)
				hasRole = isAdmin(username)
			}

			if !hasRole {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CookieToken lets browser clients authenticate with the access_token
// cookie when they send no Authorization header.
func CookieToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("authorization") == "" {
			if token, err := r.Cookie("access_token"); err == nil && token.Value != "" {
				r.Header.Set("authorization", "Bearer "+token.Value)
			}
		}
		next.ServeHTTP(w, r)
	})
}
