package web

import (
	"net/http"
	"strings"

	"strafenkasse/internal/adapters/http/middleware"
	"strafenkasse/internal/application/listutil"
	"strafenkasse/internal/application/projections"
	memberDomain "strafenkasse/internal/domain/member"
)

// handleMembers handles GET (list) and POST (create) for /members.
func handleMembers(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		lp := listutil.ParseListParams(r.URL.Query(), projections.MemberSortColumns, []string{"status"})

		result, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{
			BearerToken: sess.BearerToken,
			Params:      lp,
		}, projections.GetMemberListDeps{Members: backends.Members})
		if err != nil {
			handleBackendError(w, r, err, "/members")
			return
		}

		renderTemplate(w, r, "members.html", map[string]any{
			"Result":   result,
			"Params":   lp,
			"Query":    r.URL.Query(),
			"Statuses": []string{memberDomain.StatusAktiv, memberDomain.StatusPassiv, memberDomain.StatusArchiviert},
		})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		m := memberDomain.Member{
			Name:   strings.TrimSpace(r.FormValue("name")),
			Status: r.FormValue("status"),
			NFCID:  strings.TrimSpace(r.FormValue("nfc_id")),
		}
		if err := m.Validate(); err != nil {
			setFlash(w, "Eingabe ungültig: "+err.Error())
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
		if _, err := backends.Members.Create(r.Context(), sess.BearerToken, m); err != nil {
			handleBackendError(w, r, err, "/members")
			return
		}
		setFlash(w, "Mitglied angelegt.")
		http.Redirect(w, r, "/members", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMemberItem handles POST /members/{id} with _method=PUT|DELETE, the
// form-friendly update and delete routes.
func handleMemberItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	id := strings.TrimPrefix(r.URL.Path, "/members/")
	if id == "" || strings.Contains(id, "/") {
		http.Redirect(w, r, "/members", http.StatusSeeOther)
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

	switch r.FormValue("_method") {
	case "DELETE":
		if err := backends.Members.Delete(r.Context(), sess.BearerToken, id); err != nil {
			handleBackendError(w, r, err, "/members")
			return
		}
		setFlash(w, "Mitglied gelöscht.")

	default:
		m := memberDomain.Member{
			ID:     id,
			Name:   strings.TrimSpace(r.FormValue("name")),
			Status: r.FormValue("status"),
			NFCID:  strings.TrimSpace(r.FormValue("nfc_id")),
		}
		if err := m.Validate(); err != nil {
			setFlash(w, "Eingabe ungültig: "+err.Error())
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
		if _, err := backends.Members.Update(r.Context(), sess.BearerToken, id, m); err != nil {
			handleBackendError(w, r, err, "/members")
			return
		}
		setFlash(w, "Mitglied gespeichert.")
	}

	http.Redirect(w, r, "/members", http.StatusSeeOther)
}
