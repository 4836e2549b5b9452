package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"strafenkasse/internal/adapters/api/rest"
	"strafenkasse/internal/adapters/http/middleware"
	"strafenkasse/internal/application/orchestrators"
	"strafenkasse/internal/application/projections"
	"strafenkasse/internal/domain/role"
	"strafenkasse/internal/domain/session"
	"strafenkasse/internal/domain/user"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output. Raw
// HTML in fine notes is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the
// client, never the internal detail.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// Templates are compiled into the binary so the server has no runtime
// dependency on its working directory.
//
//go:embed templates
var templateFS embed.FS

const flashCookieName = "strafenkasse_flash"

// setFlash stores a one-shot message shown on the next rendered page.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   60,
	})
}

// popFlash returns the pending flash message and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

// handleBackendError deals with a failed backend call. A rejected bearer
// token ends the local session and sends the user to the login page with the
// reason; everything else becomes a flash message and the view keeps its
// last state. Nothing is retried automatically.
func handleBackendError(w http.ResponseWriter, r *http.Request, err error, fallbackPath string) {
	if errors.Is(err, rest.ErrUnauthorized) {
		token := middleware.SessionTokenFromRequest(r)
		if token != "" {
			if lerr := sessionManager.Logout(r.Context(), token, session.ReasonRejected); lerr != nil {
				slog.Error("auth_event", "event", "forced_logout_failed", "error", lerr.Error())
			}
		}
		// The cookie stays; the login page uses it to look up the reason.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	msg := "Aktion fehlgeschlagen. Bitte erneut versuchen."
	var apiErr *rest.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Detail != "":
		msg = apiErr.Detail
	case errors.Is(err, rest.ErrNotFound):
		msg = "Eintrag nicht gefunden."
	}
	setFlash(w, msg)
	http.Redirect(w, r, fallbackPath, http.StatusSeeOther)
}

// renderTemplate renders page templateName inside layout.html.
func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())

	funcMap := template.FuncMap{
		"currentRole":     func() string { return sess.Role },
		"currentUsername": func() string { return sess.Username },
		"isLoggedIn":      func() bool { return loggedIn },
		"csrfToken":       func() string { return csrf.Token(r) },
		"navItems":        func() []role.NavItem { return role.NavItems(sess.Role) },
		"flash":           func() string { return popFlash(w, r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"euro": func(amount float64) string {
			return fmt.Sprintf("%.2f €", amount)
		},
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
		"formatDate": func(t time.Time) string {
			return t.Format("02.01.2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Local().Format("02.01.2006 15:04")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"sortHeaderArgs": func(col, label, activeSort, activeDir string, query url.Values) map[string]any {
			nextDir := "asc"
			if col == activeSort && activeDir == "asc" {
				nextDir = "desc"
			}
			q := url.Values{}
			for k, vs := range query {
				if k != "sort" && k != "dir" && k != "page" {
					q[k] = vs
				}
			}
			q.Set("sort", col)
			q.Set("dir", nextDir)
			return map[string]any{
				"Col": col, "Label": label,
				"ActiveSort": activeSort, "ActiveDir": activeDir,
				"Query": template.URL(q.Encode()),
			}
		},
		"pageQuery": func(page int, query url.Values) template.URL {
			q := url.Values{}
			for k, vs := range query {
				if k != "page" {
					q[k] = vs
				}
			}
			q.Set("page", fmt.Sprintf("%d", page))
			return template.URL(q.Encode())
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).
		ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		internalError(w, err)
	}
}

// handleLogin handles GET (form) and POST (authenticate) for /login.
// The GET view shows the reason a previous session ended, looked up via the
// stale cookie the browser still carries.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, role.DefaultPath(sess.Role), http.StatusSeeOther)
			return
		}
		var reason string
		if token := middleware.SessionTokenFromRequest(r); token != "" {
			reason = sessionManager.LogoutReason(r.Context(), token)
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"LogoutReason": reason,
		})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		sess, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
			Username:   r.FormValue("username"),
			Password:   r.FormValue("password"),
			PriorToken: middleware.SessionTokenFromRequest(r),
		}, orchestrators.LoginDeps{
			Auth:     backends.Auth,
			Sessions: sessionManager,
		})
		if err != nil {
			msg := "Benutzername oder Passwort falsch."
			if errors.Is(err, orchestrators.ErrBackendUnreachable) {
				msg = "Server nicht erreichbar. Bitte später erneut versuchen."
			}
			renderTemplate(w, r, "login.html", map[string]any{
				"Error":    msg,
				"Username": r.FormValue("username"),
			})
			return
		}

		middleware.SetSessionCookie(w, sess.Token)
		http.Redirect(w, r, role.DefaultPath(sess.Role), http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLogout handles POST /logout. Manual logouts record no reason.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if token := middleware.SessionTokenFromRequest(r); token != "" {
		if err := sessionManager.Logout(r.Context(), token, session.ReasonManual); err != nil {
			slog.Error("auth_event", "event", "logout_failed", "error", err.Error())
		}
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleDashboard renders the landing view for admin and spiess.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		BearerToken: sess.BearerToken,
	}, projections.GetDashboardDeps{
		Stats: backends.Stats,
		Fines: backends.Fines,
	})
	if err != nil {
		handleBackendError(w, r, err, "/dashboard")
		return
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Result":    result,
		"Remaining": sess.AbsoluteRemaining(timeNow()).Round(time.Minute),
	})
}

// handleChangePassword handles GET (form) and POST for /change-password.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "change_password.html", nil)

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
			BearerToken:     sess.BearerToken,
			CurrentPassword: r.FormValue("current_password"),
			NewPassword:     r.FormValue("new_password"),
		}, orchestrators.ChangePasswordDeps{Auth: backends.Auth})
		if err != nil {
			// Internal detail never reaches the page; the generic message
			// covers everything the cases below don't name.
			msg := "Passwortänderung fehlgeschlagen. Bitte erneut versuchen."
			var apiErr *rest.APIError
			switch {
			case errors.Is(err, orchestrators.ErrCurrentPasswordWrong):
				msg = "Das aktuelle Passwort ist falsch."
			case errors.Is(err, orchestrators.ErrNewPasswordSame):
				msg = "Das neue Passwort muss sich vom aktuellen unterscheiden."
			case errors.Is(err, user.ErrPasswordTooShort):
				msg = "Das neue Passwort muss mindestens 8 Zeichen haben."
			case errors.Is(err, orchestrators.ErrBackendUnreachable):
				msg = "Server nicht erreichbar. Bitte später erneut versuchen."
			case errors.As(err, &apiErr) && apiErr.Detail != "":
				msg = apiErr.Detail
			}
			renderTemplate(w, r, "change_password.html", map[string]any{"Error": msg})
			return
		}

		setFlash(w, "Passwort geändert.")
		http.Redirect(w, r, role.DefaultPath(sess.Role), http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePerfDashboard renders the performance snapshot.
func handlePerfDashboard(w http.ResponseWriter, r *http.Request) {
	since := timeNow().Add(-time.Hour)
	if v := r.URL.Query().Get("since_minutes"); v != "" {
		if d, err := time.ParseDuration(v + "m"); err == nil && d > 0 {
			since = timeNow().Add(-d)
		}
	}
	renderTemplate(w, r, "admin_perf.html", map[string]any{
		"Snapshot": perfCollector.Snapshot(since, 15),
	})
}
