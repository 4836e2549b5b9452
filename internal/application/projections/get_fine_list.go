package projections

import (
	"context"
	"fmt"

	"strafenkasse/internal/application/listutil"
	"strafenkasse/internal/domain/fine"
)

// FinesForList defines the bookings port needed by the fine list projection.
type FinesForList interface {
	List(ctx context.Context, token, fiscalYear string) ([]fine.Fine, error)
}

// FiscalYearsForList defines the year-picker port.
type FiscalYearsForList interface {
	FiscalYears(ctx context.Context, token string) ([]string, error)
}

// GetFineListQuery carries query parameters for the fines panel.
type GetFineListQuery struct {
	BearerToken string
	FiscalYear  string // empty selects the current fiscal year
	Params      listutil.ListParams
}

// FineRow is one rendered booking with the member name joined in.
type FineRow struct {
	fine.Fine
	MemberName string
}

// GetFineListResult carries the fines panel data.
type GetFineListResult struct {
	Fines       []FineRow
	FiscalYear  string
	FiscalYears []string
	TotalCount  int
	TotalAmount float64
	PageInfo    listutil.PageInfo
}

// GetFineListDeps holds dependencies for GetFineList.
type GetFineListDeps struct {
	Fines       FinesForList
	Members     MembersForList
	FiscalYears FiscalYearsForList
}

// FineSortColumns are the sortable columns of the fines panel.
var FineSortColumns = []string{"date", "member", "amount"}

// QueryGetFineList fetches one fiscal year of bookings, joins member names,
// and applies search, sort and paging. Totals cover the whole filtered year,
// not just the visible page.
func QueryGetFineList(ctx context.Context, query GetFineListQuery, deps GetFineListDeps) (GetFineListResult, error) {
	fiscalYear := query.FiscalYear
	if fiscalYear == "" {
		fiscalYear = fine.CurrentFiscalYear()
	}

	bookings, err := deps.Fines.List(ctx, query.BearerToken, fiscalYear)
	if err != nil {
		return GetFineListResult{}, err
	}
	roster, err := deps.Members.List(ctx, query.BearerToken)
	if err != nil {
		return GetFineListResult{}, fmt.Errorf("loading members: %w", err)
	}
	years, err := deps.FiscalYears.FiscalYears(ctx, query.BearerToken)
	if err != nil {
		return GetFineListResult{}, fmt.Errorf("loading fiscal years: %w", err)
	}

	names := make(map[string]string, len(roster))
	for _, m := range roster {
		names[m.ID] = m.Name
	}

	var rows []FineRow
	var totalAmount float64
	for _, f := range bookings {
		name := names[f.MemberID]
		if name == "" {
			name = unknownMemberLabel(f.MemberID)
		}
		if !listutil.MatchesSearch(query.Params.Search, name, f.FineTypeLabel, f.Notes) {
			continue
		}
		rows = append(rows, FineRow{Fine: f, MemberName: name})
		totalAmount += f.Amount
	}

	switch query.Params.Sort {
	case "member":
		listutil.SortBy(rows, query.Params.Dir, func(a, b FineRow) bool { return a.MemberName < b.MemberName })
	case "amount":
		listutil.SortBy(rows, query.Params.Dir, func(a, b FineRow) bool { return a.Amount < b.Amount })
	default:
		// Newest first unless the caller asked for ascending dates.
		dir := query.Params.Dir
		if query.Params.Sort == "" && dir == "asc" {
			dir = "desc"
		}
		listutil.SortBy(rows, dir, func(a, b FineRow) bool { return a.Date.Before(b.Date) })
	}

	page, info := listutil.Paginate(rows, query.Params.PageParams)
	return GetFineListResult{
		Fines:       page,
		FiscalYear:  fiscalYear,
		FiscalYears: years,
		TotalCount:  len(rows),
		TotalAmount: totalAmount,
		PageInfo:    info,
	}, nil
}

func unknownMemberLabel(id string) string {
	return fmt.Sprintf("Unbekanntes Mitglied (%s)", id)
}
