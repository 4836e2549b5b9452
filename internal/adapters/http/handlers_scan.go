package web

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"strafenkasse/internal/adapters/api/rest"
	"strafenkasse/internal/adapters/http/middleware"
	"strafenkasse/internal/application/orchestrators"
	"strafenkasse/internal/application/projections"
	memberDomain "strafenkasse/internal/domain/member"
)

// isSecureContext reports whether the page is served in a context where the
// browser will grant camera access: TLS, or a loopback host.
func isSecureContext(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// handleScanPage renders the member identification page. The camera strategy
// is only offered in a secure context; manual selection from the roster is
// always available and both converge on the same confirm step.
func handleScanPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	members, err := projections.QueryGetMemberOptions(r.Context(), sess.BearerToken,
		projections.GetMemberListDeps{Members: backends.Members})
	if err != nil {
		handleBackendError(w, r, err, "/dashboard")
		return
	}
	renderTemplate(w, r, "scan.html", map[string]any{
		"CameraAvailable": isSecureContext(r),
		"CodePrefix":      memberDomain.CodePrefix,
		"Members":         members,
	})
}

// scanResolveRequest is the JSON body the scan page posts per decoded payload.
type scanResolveRequest struct {
	Payload string `json:"payload"`
}

// scanResolveResponse tells the page whether to stop scanning (Found) or to
// show Message and keep going.
type scanResolveResponse struct {
	Found      bool   `json:"found"`
	MemberID   string `json:"member_id,omitempty"`
	MemberName string `json:"member_name,omitempty"`
	Message    string `json:"message,omitempty"`
}

// handleScanResolve handles POST /scan/resolve. A miss is a normal answer,
// not an error: the page keeps the camera running.
func handleScanResolve(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req scanResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	m, err := orchestrators.ExecuteResolveScan(r.Context(), orchestrators.ResolveScanInput{
		BearerToken: sess.BearerToken,
		Payload:     req.Payload,
	}, orchestrators.ResolveScanDeps{Members: backends.Members})

	switch {
	case err == nil:
		json.NewEncoder(w).Encode(scanResolveResponse{
			Found:      true,
			MemberID:   m.ID,
			MemberName: m.Name,
		})
	case errors.Is(err, orchestrators.ErrMemberNotFound),
		errors.Is(err, memberDomain.ErrUnknownCode):
		json.NewEncoder(w).Encode(scanResolveResponse{
			Message: "Mitglied nicht gefunden",
		})
	case errors.Is(err, rest.ErrUnauthorized):
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(scanResolveResponse{Message: "Sitzung abgelaufen"})
	default:
		internalError(w, err)
	}
}
