package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	finesAPI "strafenkasse/internal/adapters/api/fines"
	"strafenkasse/internal/adapters/http/middleware"
	"strafenkasse/internal/application/listutil"
	"strafenkasse/internal/application/orchestrators"
	"strafenkasse/internal/application/projections"
)

// handleFines handles GET /fines, the fiscal-year filtered booking list.
func handleFines(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	lp := listutil.ParseListParams(r.URL.Query(), projections.FineSortColumns, nil)

	result, err := projections.QueryGetFineList(r.Context(), projections.GetFineListQuery{
		BearerToken: sess.BearerToken,
		FiscalYear:  r.URL.Query().Get("fiscal_year"),
		Params:      lp,
	}, projections.GetFineListDeps{
		Fines:       backends.Fines,
		Members:     backends.Members,
		FiscalYears: backends.Stats,
	})
	if err != nil {
		handleBackendError(w, r, err, "/dashboard")
		return
	}

	renderTemplate(w, r, "fines.html", map[string]any{
		"Result": result,
		"Params": lp,
		"Query":  r.URL.Query(),
	})
}

// parseBookFineForm reads the booking form. The date field is optional and
// only accepted in ISO form (the date input submits 2006-01-02).
func parseBookFineForm(r *http.Request) (orchestrators.BookFineInput, string) {
	input := orchestrators.BookFineInput{
		MemberID:   r.FormValue("member_id"),
		FineTypeID: r.FormValue("fine_type_id"),
		Notes:      strings.TrimSpace(r.FormValue("notes")),
	}
	if raw := strings.TrimSpace(r.FormValue("amount")); raw != "" {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return input, "Betrag ungültig."
		}
		input.Amount = amount
	}
	if raw := r.FormValue("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return input, "Datum ungültig."
		}
		input.Date = &date
	}
	return input, ""
}

// handleBookFine handles GET (form, optionally pre-filled from the scan
// flow) and POST (book) for /fines/new.
func handleBookFine(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	renderForm := func(preselect string, errMsg string) {
		types, err := backends.FineTypes.List(r.Context(), sess.BearerToken)
		if err != nil {
			handleBackendError(w, r, err, "/fines")
			return
		}
		members, err := projections.QueryGetMemberOptions(r.Context(), sess.BearerToken,
			projections.GetMemberListDeps{Members: backends.Members})
		if err != nil {
			handleBackendError(w, r, err, "/fines")
			return
		}
		renderTemplate(w, r, "fine_form.html", map[string]any{
			"FineTypes":      types,
			"Members":        members,
			"SelectedMember": preselect,
			"Error":          errMsg,
			"Today":          timeNow().Format("2006-01-02"),
		})
	}

	switch r.Method {
	case http.MethodGet:
		renderForm(r.URL.Query().Get("member_id"), "")

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input, msg := parseBookFineForm(r)
		if msg != "" {
			renderForm(input.MemberID, msg)
			return
		}
		input.BearerToken = sess.BearerToken

		fine, err := orchestrators.ExecuteBookFine(r.Context(), input, orchestrators.BookFineDeps{
			FineTypes: backends.FineTypes,
			Fines:     backends.Fines,
		})
		if err != nil {
			switch err {
			case orchestrators.ErrAmountRequired:
				renderForm(input.MemberID, "Für diese Strafenart muss ein Betrag angegeben werden.")
			case orchestrators.ErrDateInFuture:
				renderForm(input.MemberID, "Das Datum darf nicht in der Zukunft liegen.")
			case orchestrators.ErrUnknownFineType:
				renderForm(input.MemberID, "Unbekannte Strafenart.")
			default:
				handleBackendError(w, r, err, "/fines/new")
			}
			return
		}

		setFlash(w, "Strafe gebucht.")
		http.Redirect(w, r, "/fines?"+url.Values{"fiscal_year": {fine.FiscalYear}}.Encode(), http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleFineItem handles POST /fines/{id} with _method=PUT|DELETE. Only the
// amount and notes of a booked fine are editable.
func handleFineItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	id := strings.TrimPrefix(r.URL.Path, "/fines/")
	if id == "" || strings.Contains(id, "/") {
		http.Redirect(w, r, "/fines", http.StatusSeeOther)
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
	back := "/fines"
	if fy := r.FormValue("fiscal_year"); fy != "" {
		back += "?" + url.Values{"fiscal_year": {fy}}.Encode()
	}

	switch r.FormValue("_method") {
	case "DELETE":
		if err := backends.Fines.Delete(r.Context(), sess.BearerToken, id); err != nil {
			handleBackendError(w, r, err, back)
			return
		}
		setFlash(w, "Strafe gelöscht.")

	default:
		var in finesAPI.UpdateInput
		if raw := strings.TrimSpace(r.FormValue("amount")); raw != "" {
			amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
			if err != nil || amount <= 0 {
				setFlash(w, "Betrag ungültig.")
				http.Redirect(w, r, back, http.StatusSeeOther)
				return
			}
			in.Amount = &amount
		}
		if r.Form.Has("notes") {
			notes := strings.TrimSpace(r.FormValue("notes"))
			in.Notes = &notes
		}
		if _, err := backends.Fines.Update(r.Context(), sess.BearerToken, id, in); err != nil {
			handleBackendError(w, r, err, back)
			return
		}
		setFlash(w, "Strafe gespeichert.")
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}
