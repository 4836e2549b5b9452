package auditlog

import (
	"context"
	"net/url"
	"strconv"

	"strafenkasse/internal/adapters/api/rest"
	domain "strafenkasse/internal/domain/audit"
)

// RESTAPI implements API against the remote backend.
type RESTAPI struct {
	client *rest.Client
}

// NewRESTAPI creates the audit feed adapter.
func NewRESTAPI(client *rest.Client) *RESTAPI {
	return &RESTAPI{client: client}
}

// List fetches audit entries, newest first. Empty filter fields are omitted
// from the query.
// PRE: limit > 0
func (a *RESTAPI) List(ctx context.Context, token string, filter domain.Filter, limit int) ([]domain.Entry, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if filter.Category != "" {
		q.Set("category", string(filter.Category))
	}
	if filter.Action != "" {
		q.Set("action", string(filter.Action))
	}
	if filter.ActorID != "" {
		q.Set("actor_id", filter.ActorID)
	}
	if filter.From != "" {
		q.Set("from", filter.From)
	}
	if filter.To != "" {
		q.Set("to", filter.To)
	}

	var entries []domain.Entry
	if err := a.client.Get(ctx, token, "/audit-logs", q, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
