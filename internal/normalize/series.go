package normalize

import (
	"math"

	"PriceDigest/internal/calculator"
	"PriceDigest/internal/model"
)

// SeriesResult is the outcome of BuildSeries. Skipped counts rows inside the
// window whose close could not be parsed.
type SeriesResult struct {
	Records []model.DailyRecord
	Skipped int
}

// BuildSeries filters rows without a close, keeps the trailing days of what
// remains and normalizes each kept row. Filtering happens before windowing,
// so the window counts rows with a close only.
func BuildSeries(table model.RawTable, cols model.ColumnMap, days int) SeriesResult {
	closeLabel, ok := cols.Label(model.RoleClose)
	if !ok || days <= 0 {
		return SeriesResult{}
	}

	valid := make([]model.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		if row.Cell(closeLabel).Missing() {
			continue
		}
		valid = append(valid, row)
	}
	if len(valid) > days {
		valid = valid[len(valid)-days:]
	}

	res := SeriesResult{Records: make([]model.DailyRecord, 0, len(valid))}
	for _, row := range valid {
		closeVal, err := row.Cell(closeLabel).Float()
		if err != nil {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, model.DailyRecord{
			Date:   model.FormatDate(row.Index),
			Close:  calculator.Round2(closeVal),
			High:   calculator.Round2(priceOr(row, cols, model.RoleHigh, closeVal)),
			Low:    calculator.Round2(priceOr(row, cols, model.RoleLow, closeVal)),
			Volume: volumeOf(row, cols),
		})
	}
	return res
}

// priceOr returns the row's value for role, or def when the role is
// unresolved or its cell is missing or non-numeric.
func priceOr(row model.Row, cols model.ColumnMap, role model.Role, def float64) float64 {
	label, ok := cols.Label(role)
	if !ok {
		return def
	}
	v, err := row.Cell(label).Float()
	if err != nil {
		return def
	}
	return v
}

func volumeOf(row model.Row, cols model.ColumnMap) int64 {
	label, ok := cols.Label(model.RoleVolume)
	if !ok {
		return 0
	}
	v, err := row.Cell(label).Float()
	if err != nil || v <= 0 {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
