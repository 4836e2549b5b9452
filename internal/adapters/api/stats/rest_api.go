package stats

import (
	"context"
	"net/url"

	"strafenkasse/internal/adapters/api/rest"
)

// RESTAPI implements API against the remote backend.
type RESTAPI struct {
	client *rest.Client
}

// NewRESTAPI creates the statistics adapter.
func NewRESTAPI(client *rest.Client) *RESTAPI {
	return &RESTAPI{client: client}
}

// Get fetches the club-wide summary for one fiscal year.
// PRE: fiscalYear is formatted "YYYY/YYYY"
func (a *RESTAPI) Get(ctx context.Context, token, fiscalYear string) (Statistics, error) {
	var out Statistics
	q := url.Values{"fiscal_year": {fiscalYear}}
	if err := a.client.Get(ctx, token, "/statistics", q, &out); err != nil {
		return Statistics{}, err
	}
	return out, nil
}

// GetPersonal fetches the summary restricted to the member linked to the
// calling user. Users without a member link receive an empty summary.
func (a *RESTAPI) GetPersonal(ctx context.Context, token, fiscalYear string) (Statistics, error) {
	var out Statistics
	q := url.Values{"fiscal_year": {fiscalYear}}
	if err := a.client.Get(ctx, token, "/statistics/personal", q, &out); err != nil {
		return Statistics{}, err
	}
	return out, nil
}

// fiscalYearsResponse matches the backend envelope.
type fiscalYearsResponse struct {
	FiscalYears []string `json:"fiscal_years"`
}

// FiscalYears lists the fiscal years that have bookings, newest first.
func (a *RESTAPI) FiscalYears(ctx context.Context, token string) ([]string, error) {
	var resp fiscalYearsResponse
	if err := a.client.Get(ctx, token, "/fiscal-years", nil, &resp); err != nil {
		return nil, err
	}
	return resp.FiscalYears, nil
}
