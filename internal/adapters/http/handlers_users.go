package web

import (
	"net/http"
	"strings"

	usersAPI "strafenkasse/internal/adapters/api/users"
	"strafenkasse/internal/adapters/http/middleware"
	"strafenkasse/internal/application/projections"
	"strafenkasse/internal/domain/role"
	userDomain "strafenkasse/internal/domain/user"
)

// handleUsers handles GET (list) and POST (create) for /users, admin only.
func handleUsers(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		users, err := backends.Users.List(r.Context(), sess.BearerToken)
		if err != nil {
			handleBackendError(w, r, err, "/dashboard")
			return
		}
		// Member picker for the optional spiess member link.
		members, err := projections.QueryGetMemberOptions(r.Context(), sess.BearerToken,
			projections.GetMemberListDeps{Members: backends.Members})
		if err != nil {
			handleBackendError(w, r, err, "/dashboard")
			return
		}
		renderTemplate(w, r, "users.html", map[string]any{
			"Users":   users,
			"Members": members,
			"Roles":   role.ValidRoles,
		})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		in := usersAPI.CreateInput{
			Username: strings.TrimSpace(r.FormValue("username")),
			Password: r.FormValue("password"),
			Role:     r.FormValue("role"),
			MemberID: r.FormValue("member_id"),
		}
		switch {
		case in.Username == "":
			setFlash(w, "Benutzername fehlt.")
		case !role.IsValid(in.Role):
			setFlash(w, "Rolle ungültig.")
		case userDomain.ValidatePassword(in.Password) != nil:
			setFlash(w, "Passwort zu kurz (mindestens 8 Zeichen).")
		default:
			if _, err := backends.Users.Create(r.Context(), sess.BearerToken, in); err != nil {
				handleBackendError(w, r, err, "/users")
				return
			}
			setFlash(w, "Benutzer angelegt.")
		}
		http.Redirect(w, r, "/users", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleUserItem handles POST /users/{id} with _method=DELETE.
func handleUserItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	id := strings.TrimPrefix(r.URL.Path, "/users/")
	if id == "" || strings.Contains(id, "/") {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if r.FormValue("_method") != "DELETE" {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	if err := backends.Users.Delete(r.Context(), sess.BearerToken, id); err != nil {
		handleBackendError(w, r, err, "/users")
		return
	}
	setFlash(w, "Benutzer gelöscht.")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
