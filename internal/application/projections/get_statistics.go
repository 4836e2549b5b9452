package projections

import (
	"context"
	"fmt"

	"strafenkasse/internal/adapters/api/stats"
	"strafenkasse/internal/domain/fine"
)

// StatsForView defines the statistics port needed by the statistics projection.
type StatsForView interface {
	Get(ctx context.Context, token, fiscalYear string) (stats.Statistics, error)
	GetPersonal(ctx context.Context, token, fiscalYear string) (stats.Statistics, error)
	FiscalYears(ctx context.Context, token string) ([]string, error)
}

// GetStatisticsQuery carries query parameters for the statistics panel.
// Personal restricts the view to the calling user's linked member.
type GetStatisticsQuery struct {
	BearerToken string
	FiscalYear  string // empty selects the current fiscal year
	Personal    bool
}

// GetStatisticsResult carries the statistics panel data.
type GetStatisticsResult struct {
	Statistics  stats.Statistics
	FiscalYear  string
	FiscalYears []string
}

// GetStatisticsDeps holds dependencies for GetStatistics.
type GetStatisticsDeps struct {
	Stats StatsForView
}

// QueryGetStatistics fetches one fiscal year of statistics plus the year
// picker. The Sau/Lämmchen entries come straight from the backend ranking.
func QueryGetStatistics(ctx context.Context, query GetStatisticsQuery, deps GetStatisticsDeps) (GetStatisticsResult, error) {
	fiscalYear := query.FiscalYear
	if fiscalYear == "" {
		fiscalYear = fine.CurrentFiscalYear()
	}

	years, err := deps.Stats.FiscalYears(ctx, query.BearerToken)
	if err != nil {
		return GetStatisticsResult{}, fmt.Errorf("loading fiscal years: %w", err)
	}

	var s stats.Statistics
	if query.Personal {
		s, err = deps.Stats.GetPersonal(ctx, query.BearerToken, fiscalYear)
	} else {
		s, err = deps.Stats.Get(ctx, query.BearerToken, fiscalYear)
	}
	if err != nil {
		return GetStatisticsResult{}, err
	}

	return GetStatisticsResult{
		Statistics:  s,
		FiscalYear:  fiscalYear,
		FiscalYears: years,
	}, nil
}
