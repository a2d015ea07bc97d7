package collector

import (
	"context"
	"sync/atomic"
	"time"

	"PriceDigest/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Table *model.RawTable
	Err   error
	Calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyTable(_ context.Context, _ string, days int) (model.RawTable, error) {
	m.Calls.Add(1)
	if m.Err != nil {
		return model.RawTable{}, m.Err
	}
	if m.Table != nil {
		return *m.Table, nil
	}
	return generateMockTable(m.Price, LookbackDays(days)), nil
}

func generateMockTable(basePrice float64, count int) model.RawTable {
	table := model.RawTable{Columns: []string{"Open", "High", "Low", "Close", "Volume"}}
	start := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		table.Rows = append(table.Rows, model.Row{
			Index: start.AddDate(0, 0, -(count - i)),
			Cells: map[string]model.Cell{
				"Open":   model.NumberCell(p * 0.999),
				"High":   model.NumberCell(p * 1.005),
				"Low":    model.NumberCell(p * 0.995),
				"Close":  model.NumberCell(p),
				"Volume": model.NumberCell(1000000),
			},
		})
	}
	return table
}
