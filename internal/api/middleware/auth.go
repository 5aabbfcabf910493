package middleware

import (
	"context"
	"net/http"

	"userhub/internal/app/service"
	"userhub/internal/domain/model"
)

type contextKey string

const userCtxKey contextKey = "currentUser"

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// SessionToken extracts the session token from the request cookie, or ""
// when the browser sent none.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Auth provides session-based route protection backed by the gate.
type Auth struct {
	authz *service.Authorizer
}

func NewAuth(authz *service.Authorizer) *Auth {
	return &Auth{authz: authz}
}

// RequireUser admits only requests with a valid session, placing the
// resolved user in the request context. Anything else is redirected to the
// login form. Protected pages are marked uncacheable.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")

		user, err := a.authz.RequireAuthenticated(r.Context(), SessionToken(r))
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user placed by RequireUser.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*model.User)
	return user, ok
}
