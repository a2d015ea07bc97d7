package calculator

import (
	"errors"

	"PriceDigest/internal/model"
)

// CalculateChange derives the current metrics from the tail of a normalized
// series. The previous price falls back to the current one for a
// single-record series, and pct is 0 whenever the previous price is 0.
func CalculateChange(series []model.DailyRecord) (model.CurrentMetrics, error) {
	if len(series) == 0 {
		return model.CurrentMetrics{}, errors.New("no records provided")
	}
	current := series[len(series)-1].Close
	previous := current
	if len(series) > 1 {
		previous = series[len(series)-2].Close
	}

	change := Round2(current - previous)
	pct := 0.0
	if previous != 0 {
		pct = Round2(change / previous * 100)
	}
	return model.CurrentMetrics{
		Price:  current,
		Change: change,
		Pct:    pct,
	}, nil
}
