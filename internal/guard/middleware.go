package guard

import (
	"net/http"

	"github.com/scro-cloud/scro/internal/accounts"
	"github.com/scro-cloud/scro/internal/platform/httpx"
	"github.com/scro-cloud/scro/internal/session"
)

// RequireAuth ensures the request carries an authenticated session.
func RequireAuth() func(http.Handler) http.Handler {
	return RequireRole("")
}

// RequireRole gates a route on the given role. The verdict is computed
// per request from the session in context, never cached.
func RequireRole(required accounts.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Authorize(session.FromContext(r.Context()), required)
			switch decision.Kind {
			case Allow:
				next.ServeHTTP(w, r)
			case RedirectToLogin:
				w.Header().Set("Location", "/login")
				httpx.Problem(w, http.StatusUnauthorized, "Authentication Required", "sign in to access this resource")
			default:
				httpx.DenyProblem(w, string(decision.Required), string(decision.Actual))
			}
		})
	}
}
