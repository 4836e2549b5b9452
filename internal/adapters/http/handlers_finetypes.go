package web

import (
	"net/http"
	"strconv"
	"strings"

	"strafenkasse/internal/adapters/http/middleware"
	fineDomain "strafenkasse/internal/domain/fine"
	"strafenkasse/internal/domain/role"
)

// parseFineTypeForm builds a FineType from the submitted form. An empty
// amount marks a variable type.
func parseFineTypeForm(r *http.Request) (fineDomain.FineType, string) {
	label := strings.TrimSpace(r.FormValue("label"))
	if label == "" {
		return fineDomain.FineType{}, "Bezeichnung fehlt."
	}
	ft := fineDomain.FineType{Label: label}
	if raw := strings.TrimSpace(r.FormValue("amount")); raw != "" {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil || amount <= 0 {
			return fineDomain.FineType{}, "Betrag ungültig."
		}
		ft.Amount = &amount
	}
	return ft, ""
}

// handleFineTypes handles GET (catalog) and POST (create) for /fine-types.
// Vorstand reaches this view read-only; the mutation routes are guarded by
// the edit capability and the template hides the forms.
func handleFineTypes(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	caps := role.PolicyFor(sess.Role)

	switch r.Method {
	case http.MethodGet:
		types, err := backends.FineTypes.List(r.Context(), sess.BearerToken)
		if err != nil {
			handleBackendError(w, r, err, "/fine-types")
			return
		}
		renderTemplate(w, r, "fine_types.html", map[string]any{
			"FineTypes": types,
			"CanEdit":   caps.EditFineTypes,
		})

	case http.MethodPost:
		if !caps.EditFineTypes {
			http.Redirect(w, r, role.DefaultPath(sess.Role), http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		ft, msg := parseFineTypeForm(r)
		if msg != "" {
			setFlash(w, msg)
			http.Redirect(w, r, "/fine-types", http.StatusSeeOther)
			return
		}
		if _, err := backends.FineTypes.Create(r.Context(), sess.BearerToken, ft); err != nil {
			handleBackendError(w, r, err, "/fine-types")
			return
		}
		setFlash(w, "Strafenart angelegt.")
		http.Redirect(w, r, "/fine-types", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleFineTypeItem handles POST /fine-types/{id} with _method=PUT|DELETE.
func handleFineTypeItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	id := strings.TrimPrefix(r.URL.Path, "/fine-types/")
	if id == "" || strings.Contains(id, "/") {
		http.Redirect(w, r, "/fine-types", http.StatusSeeOther)
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
		if err := backends.FineTypes.Delete(r.Context(), sess.BearerToken, id); err != nil {
			handleBackendError(w, r, err, "/fine-types")
			return
		}
		setFlash(w, "Strafenart gelöscht.")

	default:
		ft, msg := parseFineTypeForm(r)
		if msg != "" {
			setFlash(w, msg)
			http.Redirect(w, r, "/fine-types", http.StatusSeeOther)
			return
		}
		ft.ID = id
		if _, err := backends.FineTypes.Update(r.Context(), sess.BearerToken, id, ft); err != nil {
			handleBackendError(w, r, err, "/fine-types")
			return
		}
		setFlash(w, "Strafenart gespeichert.")
	}

	http.Redirect(w, r, "/fine-types", http.StatusSeeOther)
}
