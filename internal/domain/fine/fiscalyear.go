package fine

import (
	"fmt"
	"time"
)

// FiscalYearStartMonth is the month a new club accounting period begins.
// August 1 starts the new fiscal year; July 31 still belongs to the old one.
const FiscalYearStartMonth = time.August

// FiscalYearOf returns the fiscal year label for a date, formatted
// "YYYY/YYYY" (e.g. 2024/2025 for any date from 2024-08-01 to 2025-07-31).
// INVARIANT: Pure function of the date's year and month
func FiscalYearOf(date time.Time) string {
	start := date.Year()
	if date.Month() < FiscalYearStartMonth {
		start--
	}
	return fmt.Sprintf("%d/%d", start, start+1)
}

// CurrentFiscalYear returns the fiscal year label for the current date.
func CurrentFiscalYear() string {
	return FiscalYearOf(time.Now())
}
