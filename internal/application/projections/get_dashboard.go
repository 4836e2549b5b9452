package projections

import (
	"context"
	"fmt"

	"strafenkasse/internal/adapters/api/stats"
	"strafenkasse/internal/application/listutil"
	"strafenkasse/internal/domain/fine"
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	BearerToken string
}

// GetDashboardDeps holds dependencies for GetDashboard.
type GetDashboardDeps struct {
	Stats StatsForView
	Fines FinesForList
}

// GetDashboardResult carries the dashboard data: the running fiscal year's
// headline numbers plus the latest bookings.
type GetDashboardResult struct {
	FiscalYear  string
	TotalFines  int
	TotalAmount float64
	Sau         *stats.RankingEntry
	Laemmchen   *stats.RankingEntry
	RecentFines []fine.Fine
}

// recentFineCount is how many of the newest bookings the dashboard shows.
const recentFineCount = 5

// QueryGetDashboard assembles the landing view for the current fiscal year.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	fiscalYear := fine.CurrentFiscalYear()

	s, err := deps.Stats.Get(ctx, query.BearerToken, fiscalYear)
	if err != nil {
		return GetDashboardResult{}, err
	}

	bookings, err := deps.Fines.List(ctx, query.BearerToken, fiscalYear)
	if err != nil {
		return GetDashboardResult{}, fmt.Errorf("loading fines: %w", err)
	}
	// Newest first.
	listutil.SortBy(bookings, "desc", func(a, b fine.Fine) bool { return a.Date.Before(b.Date) })
	if len(bookings) > recentFineCount {
		bookings = bookings[:recentFineCount]
	}

	return GetDashboardResult{
		FiscalYear:  fiscalYear,
		TotalFines:  s.TotalFines,
		TotalAmount: s.TotalAmount,
		Sau:         s.Sau,
		Laemmchen:   s.Laemmchen,
		RecentFines: bookings,
	}, nil
}
