package middleware

import (
	"context"
	"net/http"

	"strafenkasse/internal/domain/role"
	"strafenkasse/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionSource is the session manager surface the middleware needs. Get
// enforces the idle and absolute budgets; Touch counts the request as
// activity.
type SessionSource interface {
	Get(ctx context.Context, token string) (session.Session, bool)
	Touch(ctx context.Context, token string)
}

// SecureCookies controls the Secure flag on session cookies. Enabled in
// production and behind TLS.
var SecureCookies = false

const sessionCookieName = "strafenkasse_session"

// Auth returns middleware that resolves the session cookie and puts the live
// session into the request context. Every resolved request counts as user
// activity and restarts the idle budget. Unauthenticated requests pass
// through — RequireAuth and RequireCapability block them.
func Auth(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if sess, ok := sessions.Get(r.Context(), cookie.Value); ok {
					sessions.Touch(r.Context(), cookie.Value)
					r = r.WithContext(ContextWithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that sends unauthenticated requests to the
// login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCapability returns middleware guarding a route by the role policy
// table. A session without the capability is silently redirected to its
// role's landing page, never shown an error page.
func RequireCapability(allowed func(role.Capabilities) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !allowed(role.PolicyFor(sess.Role)) {
				http.Redirect(w, r, role.DefaultPath(sess.Role), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(session.Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionTokenFromRequest returns the raw session cookie value, present or
// not. Login uses it to clear the stale logout reason, logout to end the
// right session.
func SessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the session cookie on the response. The cookie's
// lifetime matches the absolute session ceiling; the real budgets are
// enforced server-side.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(session.MaxDuration.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
