package collector

import (
	"context"

	"PriceDigest/internal/model"
)

// Fetcher defines the interface for acquiring a raw daily table.
// Implementations over-fetch (see LookbackDays) so that rows dropped for a
// missing close do not shrink the requested window.
type Fetcher interface {
	FetchDailyTable(ctx context.Context, symbol string, days int) (model.RawTable, error)
	Name() string
}

// LookbackDays is the calendar span requested from a source for a window of
// days valid rows.
func LookbackDays(days int) int {
	if n := days * 2; n > 7 {
		return n
	}
	return 7
}
