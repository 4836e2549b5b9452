package stats

import (
	"context"
)

// RankingEntry is one row of the fines ranking for a fiscal year.
type RankingEntry struct {
	MemberID   string  `json:"member_id"`
	MemberName string  `json:"member_name"`
	Total      float64 `json:"total"`
	Rank       int     `json:"rank"`
}

// Statistics summarises one fiscal year. Sau is the top entry of the
// ranking, Laemmchen the runner-up; both are nil when the ranking is too
// short.
type Statistics struct {
	FiscalYear  string         `json:"fiscal_year"`
	TotalFines  int            `json:"total_fines"`
	TotalAmount float64        `json:"total_amount"`
	Sau         *RankingEntry  `json:"sau"`
	Laemmchen   *RankingEntry  `json:"laemmchen"`
	Ranking     []RankingEntry `json:"ranking"`
}

// API is the backend port for statistics and fiscal year listings.
type API interface {
	Get(ctx context.Context, token, fiscalYear string) (Statistics, error)
	GetPersonal(ctx context.Context, token, fiscalYear string) (Statistics, error)
	FiscalYears(ctx context.Context, token string) ([]string, error)
}
