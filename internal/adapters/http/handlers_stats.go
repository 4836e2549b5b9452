package web

import (
	"net/http"

	"strafenkasse/internal/adapters/http/middleware"
	"strafenkasse/internal/application/listutil"
	"strafenkasse/internal/application/projections"
	"strafenkasse/internal/domain/audit"
)

// handleStatistics handles GET /statistics. The personal toggle restricts
// the view to the calling user's linked member.
func handleStatistics(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	personal := r.URL.Query().Get("view") == "personal"
	result, err := projections.QueryGetStatistics(r.Context(), projections.GetStatisticsQuery{
		BearerToken: sess.BearerToken,
		FiscalYear:  r.URL.Query().Get("fiscal_year"),
		Personal:    personal,
	}, projections.GetStatisticsDeps{Stats: backends.Stats})
	if err != nil {
		handleBackendError(w, r, err, "/dashboard")
		return
	}

	renderTemplate(w, r, "statistics.html", map[string]any{
		"Result":   result,
		"Personal": personal,
	})
}

// handleAuditLog handles GET /audit-log, admin only.
func handleAuditLog(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	lp := listutil.ParseListParams(q, nil, []string{"category", "action", "actor_id"})
	filter := audit.Filter{
		Category: audit.Category(lp.Filters["category"]),
		Action:   audit.Action(lp.Filters["action"]),
		ActorID:  lp.Filters["actor_id"],
	}

	result, err := projections.QueryGetAuditLog(r.Context(), projections.GetAuditLogQuery{
		BearerToken: sess.BearerToken,
		Filter:      filter,
		Params:      lp,
	}, projections.GetAuditLogDeps{Audit: backends.Audit})
	if err != nil {
		handleBackendError(w, r, err, "/dashboard")
		return
	}

	renderTemplate(w, r, "audit_log.html", map[string]any{
		"Result": result,
		"Params": lp,
		"Query":  q,
		"Categories": []audit.Category{
			audit.CategoryAuth, audit.CategoryMember, audit.CategoryFine,
			audit.CategoryFineType, audit.CategoryUser,
		},
	})
}
