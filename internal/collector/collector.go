package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"PriceDigest/internal/logger"
	"PriceDigest/internal/metrics"
	"PriceDigest/internal/model"
	"PriceDigest/internal/normalize"
	"PriceDigest/internal/recorder"
	"PriceDigest/internal/trace"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Outcome labels used for metrics and diagnostics.
const (
	ResultOK                 = "ok"
	ResultEmptyInput         = "empty_input"
	ResultUnresolvableColumn = "unresolvable_column"
	ResultNoValidRecords     = "no_valid_records"
	ResultInvalidWindow      = "invalid_window"
	ResultFetchError         = "fetch_error"
	ResultRecordError        = "record_error"
)

// Collector fetches a raw table, runs it through the normalization pipeline
// and hands the document to the recorder.
type Collector struct {
	Fetcher  Fetcher
	Recorder recorder.Recorder
	Log      *logger.Logger
	Metrics  *metrics.Metrics
}

// NewCollector creates a new Collector. A nil recorder or logger is replaced
// by a no-op; metrics may stay nil.
func NewCollector(fetcher Fetcher, rec recorder.Recorder, log *logger.Logger, m *metrics.Metrics) *Collector {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Collector{Fetcher: fetcher, Recorder: rec, Log: log, Metrics: m}
}

// Generate produces and records the document for ticker over the trailing
// days valid rows.
func (c *Collector) Generate(ctx context.Context, ticker string, days int) (doc *model.MarketDocument, err error) {
	start := time.Now()
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	runID := uuid.NewString()
	log := c.Log.WithFields(map[string]interface{}{
		"run_id": runID,
		"ticker": ticker,
		"days":   days,
		"source": c.Fetcher.Name(),
	})

	ctx, span := trace.StartSpan(ctx, "collector.generate",
		attribute.String("ticker", ticker),
		attribute.Int("days", days),
		attribute.String("run_id", runID),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.Metrics.ObserveGeneration(Outcome(err), time.Since(start))
	}()

	if days <= 0 {
		return nil, &normalize.PipelineError{Kind: normalize.ErrInvalidWindow, Ticker: ticker}
	}

	table, err := c.Fetcher.FetchDailyTable(ctx, ticker, days)
	if err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	log.Debugf("fetched %d rows, columns %v", len(table.Rows), table.Columns)

	res, err := normalize.Assemble(ticker, table, days)
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		log.Debugf("skipped %d rows with unparsable close", res.Skipped)
	}
	log.Debugf("resolved columns %v", res.Columns)

	if err := c.Recorder.Record(ctx, res.Document); err != nil {
		return nil, &RecordError{Ticker: res.Document.Ticker, Err: err}
	}

	log.WithField("price", res.Document.Current.Price).
		WithField("records", len(res.Document.Series)).
		Info("document generated")
	return res.Document, nil
}

// Run generates the document for ticker and reports success. Failures are
// logged with their condition, ticker and observed columns; no error or panic
// escapes.
func (c *Collector) Run(ctx context.Context, ticker string, days int) (ok bool) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	defer func() {
		if r := recover(); r != nil {
			c.Log.WithField("ticker", ticker).Errorf("generation panicked: %v", r)
			ok = false
		}
	}()

	if _, err := c.Generate(ctx, ticker, days); err != nil {
		c.logFailure(ticker, err)
		return false
	}
	return true
}

func (c *Collector) logFailure(ticker string, err error) {
	fields := map[string]interface{}{
		"ticker":    ticker,
		"condition": Outcome(err),
	}
	var pe *normalize.PipelineError
	if errors.As(err, &pe) {
		if pe.Ticker != "" {
			fields["ticker"] = pe.Ticker
		}
		if pe.Columns != nil {
			fields["columns"] = pe.Columns
		}
	}
	c.Log.WithFields(fields).WithError(err).Error("document generation failed")
}

// Outcome maps an error from Generate to its result label.
func Outcome(err error) string {
	var fe *FetchError
	var re *RecordError
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, normalize.ErrEmptyInput):
		return ResultEmptyInput
	case errors.Is(err, normalize.ErrUnresolvableColumn):
		return ResultUnresolvableColumn
	case errors.Is(err, normalize.ErrNoValidRecords):
		return ResultNoValidRecords
	case errors.Is(err, normalize.ErrInvalidWindow):
		return ResultInvalidWindow
	case errors.As(err, &fe):
		return ResultFetchError
	case errors.As(err, &re):
		return ResultRecordError
	}
	return ResultFetchError
}

// FetchError reports a failure to acquire the raw table.
type FetchError struct {
	Ticker string
	Err    error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Ticker, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// RecordError reports a failure to persist a generated document.
type RecordError struct {
	Ticker string
	Err    error
}

func (e *RecordError) Error() string { return fmt.Sprintf("record %s: %v", e.Ticker, e.Err) }
func (e *RecordError) Unwrap() error { return e.Err }
