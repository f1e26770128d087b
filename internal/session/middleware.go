package session

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Middleware restores the session named by the request cookie into the
// request context. Requests without a cookie proceed unauthenticated.
func Middleware(manager *Manager, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess := Unauthenticated()
			cookie, err := r.Cookie(cookieName)
			if err == nil && cookie.Value != "" {
				ctx = ContextWithRecordID(ctx, cookie.Value)
				sess, err = manager.Restore(ctx, cookie.Value)
				if err != nil && !errors.Is(err, ErrNoRecord) {
					logger.Error("restore session", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}
			ctx = ContextWithSession(ctx, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetCookie writes the session record cookie.
func SetCookie(w http.ResponseWriter, name, recordID string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    recordID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearCookie expires the session record cookie.
func ClearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
