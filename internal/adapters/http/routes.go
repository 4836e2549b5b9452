package web

import (
	"net/http"

	"strafenkasse/internal/adapters/http/middleware"
	"strafenkasse/internal/domain/role"
)

// registerRoutes wires every panel behind its capability guard. The root
// path and anything unmatched resolve to the role's landing page, never to a
// 404.
func registerRoutes(mux *http.ServeMux) {
	guard := func(allowed func(role.Capabilities) bool, h http.HandlerFunc) http.Handler {
		return middleware.RequireCapability(allowed)(h)
	}

	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.Handle("/change-password", middleware.RequireAuth(http.HandlerFunc(handleChangePassword)))

	mux.Handle("/dashboard", guard(func(c role.Capabilities) bool { return c.ViewDashboard }, handleDashboard))

	mux.Handle("/members", guard(func(c role.Capabilities) bool { return c.ManageMembers }, handleMembers))
	mux.Handle("/members/", guard(func(c role.Capabilities) bool { return c.ManageMembers }, handleMemberItem))

	mux.Handle("/fine-types", guard(func(c role.Capabilities) bool { return c.ViewFineTypes }, handleFineTypes))
	mux.Handle("/fine-types/", guard(func(c role.Capabilities) bool { return c.EditFineTypes }, handleFineTypeItem))

	mux.Handle("/fines", guard(func(c role.Capabilities) bool { return c.ManageFines }, handleFines))
	mux.Handle("/fines/new", guard(func(c role.Capabilities) bool { return c.ManageFines }, handleBookFine))
	mux.Handle("/fines/", guard(func(c role.Capabilities) bool { return c.ManageFines }, handleFineItem))

	mux.Handle("/scan", guard(func(c role.Capabilities) bool { return c.ManageFines }, handleScanPage))
	mux.Handle("/scan/resolve", guard(func(c role.Capabilities) bool { return c.ManageFines }, handleScanResolve))

	mux.Handle("/statistics", guard(func(c role.Capabilities) bool { return c.ViewStatistics }, handleStatistics))

	mux.Handle("/users", guard(func(c role.Capabilities) bool { return c.ManageUsers }, handleUsers))
	mux.Handle("/users/", guard(func(c role.Capabilities) bool { return c.ManageUsers }, handleUserItem))

	mux.Handle("/audit-log", guard(func(c role.Capabilities) bool { return c.ViewAuditLog }, handleAuditLog))

	mux.Handle("/admin/perf", guard(func(c role.Capabilities) bool { return c.ManageUsers }, handlePerfDashboard))

	// Catch-all: "/" and unmatched paths land on the role default.
	mux.HandleFunc("/", handleRoot)
}

// handleRoot redirects to the role's landing page, or to login when no
// session is present.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, role.DefaultPath(sess.Role), http.StatusSeeOther)
}
