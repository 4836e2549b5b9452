package projections

import (
	"context"

	"strafenkasse/internal/application/listutil"
	"strafenkasse/internal/domain/audit"
)

// AuditForList defines the feed port needed by the audit log projection.
type AuditForList interface {
	List(ctx context.Context, token string, filter audit.Filter, limit int) ([]audit.Entry, error)
}

// GetAuditLogQuery carries query parameters for the audit log panel.
type GetAuditLogQuery struct {
	BearerToken string
	Filter      audit.Filter
	Params      listutil.ListParams
}

// GetAuditLogResult carries the audit log panel data.
type GetAuditLogResult struct {
	Entries  []audit.Entry
	PageInfo listutil.PageInfo
}

// GetAuditLogDeps holds dependencies for GetAuditLog.
type GetAuditLogDeps struct {
	Audit AuditForList
}

// auditFetchLimit caps how much of the feed one panel view pulls from the
// backend; paging below that happens locally.
const auditFetchLimit = 1000

// QueryGetAuditLog fetches the filtered feed and pages it for rendering. The
// backend returns entries newest first.
func QueryGetAuditLog(ctx context.Context, query GetAuditLogQuery, deps GetAuditLogDeps) (GetAuditLogResult, error) {
	entries, err := deps.Audit.List(ctx, query.BearerToken, query.Filter, auditFetchLimit)
	if err != nil {
		return GetAuditLogResult{}, err
	}

	if q := query.Params.Search; q != "" {
		var filtered []audit.Entry
		for _, e := range entries {
			if listutil.MatchesSearch(q, e.Actor, e.Description, e.ResourceID) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	page, info := listutil.Paginate(entries, query.Params.PageParams)
	return GetAuditLogResult{Entries: page, PageInfo: info}, nil
}
