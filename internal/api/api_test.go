package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PriceDigest/internal/collector"
	"PriceDigest/internal/logger"
	"PriceDigest/internal/metrics"
	"PriceDigest/internal/model"
	"PriceDigest/internal/recorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	dir      string
	skipFile bool
	ticker   string
	days     int
	deadline bool
	err      error
	panic    bool
}

func (f *fakeGenerator) Generate(ctx context.Context, ticker string, days int) (*model.MarketDocument, error) {
	if f.panic {
		panic("boom")
	}
	f.ticker, f.days = ticker, days
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	if !f.skipFile {
		if err := os.WriteFile(filepath.Join(f.dir, ticker+".json"), []byte(`{}`), 0o644); err != nil {
			return nil, err
		}
	}
	return &model.MarketDocument{Ticker: ticker}, nil
}

type fakeHistory struct{}

func (fakeHistory) History(_ context.Context, ticker string, limit int) ([]recorder.Snapshot, error) {
	return []recorder.Snapshot{{ID: "run-1", Ticker: ticker, Price: 102, Change: 2, Pct: 2, Records: limit}}, nil
}

func (fakeHistory) Records(context.Context, string) ([]model.DailyRecord, error) {
	return nil, nil
}

func serve(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func newTestRouter(t *testing.T, gen *fakeGenerator, history HistoryStore) (http.Handler, string) {
	dir := filepath.Join(t.TempDir(), "public")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	gen.dir = dir
	h := NewHandler(gen, Stores{History: history}, dir, time.Second, logger.Nop())
	return NewRouter(h, metrics.New().Handler(), logger.Nop()), dir
}

func TestPing(t *testing.T) {
	router, _ := newTestRouter(t, &fakeGenerator{}, nil)
	rec, body := serve(t, router, "/api/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"ok": true}, body)
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{}
	router, _ := newTestRouter(t, gen, nil)

	rec, body := serve(t, router, "/api/generate?ticker=%20brk.b%20&days=abc")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"ok": true, "ticker": "BRK.B", "file": "public/BRK.B.json"}, body)
	assert.Equal(t, "BRK.B", gen.ticker)
	assert.Equal(t, DefaultDays, gen.days)
	assert.True(t, gen.deadline)

	_, _ = serve(t, router, "/api/generate?ticker=aapl&days=30")
	assert.Equal(t, 30, gen.days)
}

func TestGenerate_InvalidTicker(t *testing.T) {
	gen := &fakeGenerator{}
	router, _ := newTestRouter(t, gen, nil)

	for _, q := range []string{"", "ticker=", "ticker=TOOLONGTICKER", "ticker=AA%2FPL", "ticker=a%20b"} {
		rec, body := serve(t, router, "/api/generate?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Equal(t, map[string]interface{}{"ok": false, "error": "invalid ticker"}, body, q)
	}
	assert.Empty(t, gen.ticker)
}

func TestGenerate_Failure(t *testing.T) {
	router, _ := newTestRouter(t, &fakeGenerator{err: errors.New("could not find a close column for IBM")}, nil)

	rec, body := serve(t, router, "/api/generate?ticker=IBM")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "could not find a close column for IBM", body["error"])
}

func TestGenerate_FileNotCreated(t *testing.T) {
	router, _ := newTestRouter(t, &fakeGenerator{skipFile: true}, nil)

	rec, body := serve(t, router, "/api/generate?ticker=AAPL")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]interface{}{"ok": false, "error": "file not created"}, body)
}

func TestGenerate_PanicRecovered(t *testing.T) {
	router, _ := newTestRouter(t, &fakeGenerator{panic: true}, nil)
	rec, body := serve(t, router, "/api/generate?ticker=IBM")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["error"])
}

func TestGenerateThenServeDocument(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	jr, err := recorder.NewJSONRecorder(dir)
	require.NoError(t, err)
	col := collector.NewCollector(&collector.MockFetcher{Price: 100}, jr, logger.Nop(), nil)
	router := NewRouter(NewHandler(col, Stores{Documents: jr}, dir, time.Second, logger.Nop()), nil, logger.Nop())

	rec, _ := serve(t, router, "/api/generate?ticker=msft&days=3")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := serve(t, router, "/api/documents/msft")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MSFT", body["ticker"])
	assert.Len(t, body["series"], 3)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ticker": "MSFT"`)

	rec, _ = serve(t, router, "/api/documents/IBM")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerate_WithoutJSONOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	pr, err := recorder.NewParquetRecorder(dir)
	require.NoError(t, err)
	col := collector.NewCollector(&collector.MockFetcher{Price: 100}, pr, logger.Nop(), nil)
	router := NewRouter(NewHandler(col, Stores{}, dir, time.Second, logger.Nop()), nil, logger.Nop())

	rec, body := serve(t, router, "/api/generate?ticker=MSFT")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "file not created", body["error"])
	assert.FileExists(t, pr.Path("MSFT"))

	rec, body = serve(t, router, "/api/documents/MSFT")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "json output is not enabled", body["error"])
}

func TestRecords(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	sr, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), logger.Nop())
	require.NoError(t, err)
	defer sr.Close()
	jr, err := recorder.NewJSONRecorder(dir)
	require.NoError(t, err)

	col := collector.NewCollector(&collector.MockFetcher{Price: 100}, recorder.Multi{jr, sr}, logger.Nop(), nil)
	router := NewRouter(NewHandler(col, Stores{Documents: jr, History: sr}, dir, time.Second, logger.Nop()), nil, logger.Nop())

	rec, body := serve(t, router, "/api/records/aapl")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["records"])

	rec, _ = serve(t, router, "/api/generate?ticker=aapl&days=4")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = serve(t, router, "/api/records/AAPL")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", body["ticker"])
	assert.Len(t, body["records"], 4)

	rec, body = serve(t, router, "/api/history/AAPL")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["history"], 1)
}

func TestHistory(t *testing.T) {
	router, _ := newTestRouter(t, &fakeGenerator{}, nil)
	rec, _ := serve(t, router, "/api/history/AAPL")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	router, _ = newTestRouter(t, &fakeGenerator{}, fakeHistory{})
	rec, body := serve(t, router, "/api/history/aapl?limit=3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", body["ticker"])
	history := body["history"].([]interface{})
	require.Len(t, history, 1)
	assert.Equal(t, 3.0, history[0].(map[string]interface{})["records"])
}

func TestStaticFallback(t *testing.T) {
	router, dir := newTestRouter(t, &fakeGenerator{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>digest</html>"), 0o644))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "digest")
}

func TestMetricsRoute(t *testing.T) {
	router, _ := newTestRouter(t, &fakeGenerator{}, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseDays(t *testing.T) {
	tests := map[string]int{
		"":     7,
		"abc":  7,
		"0":    7,
		"-5":   7,
		"3abc": 3,
		"30":   30,
		" 14 ": 14,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseDays(in), in)
	}
}
