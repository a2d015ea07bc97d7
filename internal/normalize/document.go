package normalize

import (
	"strings"

	"PriceDigest/internal/calculator"
	"PriceDigest/internal/model"
)

// Result is a successful assembly along with bookkeeping the caller may log.
type Result struct {
	Document *model.MarketDocument
	Columns  model.ColumnMap
	Skipped  int
}

// Assemble runs the full pipeline for one ticker: resolve columns, build the
// series, compute the current metrics and compose the document. Every failure
// is a *PipelineError wrapping one of the package sentinels.
func Assemble(ticker string, table model.RawTable, days int) (*Result, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if days <= 0 {
		return nil, &PipelineError{Kind: ErrInvalidWindow, Ticker: symbol}
	}
	if table.Empty() {
		return nil, &PipelineError{Kind: ErrEmptyInput, Ticker: symbol}
	}

	cols, err := ResolveColumns(table.Columns)
	if err != nil {
		return nil, &PipelineError{Kind: ErrUnresolvableColumn, Ticker: symbol, Columns: append([]string{}, table.Columns...)}
	}

	series := BuildSeries(table, cols, days)
	if len(series.Records) == 0 {
		return nil, &PipelineError{Kind: ErrNoValidRecords, Ticker: symbol}
	}

	current, err := calculator.CalculateChange(series.Records)
	if err != nil {
		return nil, &PipelineError{Kind: ErrNoValidRecords, Ticker: symbol}
	}

	return &Result{
		Document: &model.MarketDocument{
			Ticker:  symbol,
			Series:  series.Records,
			Current: current,
		},
		Columns: cols,
		Skipped: series.Skipped,
	}, nil
}
