package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"PriceDigest/internal/logger"
	"PriceDigest/internal/model"
	"PriceDigest/internal/recorder"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// DefaultDays is used when the days parameter is absent or unusable.
const DefaultDays = 7

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.-]{1,10}$`)

// Generator produces and records one document. *collector.Collector
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, ticker string, days int) (*model.MarketDocument, error)
}

// DocumentStore reads back stored documents. *recorder.JSONRecorder
// satisfies it.
type DocumentStore interface {
	Load(ticker string) (*model.MarketDocument, error)
}

// HistoryStore lists past generations and the daily records kept for a
// ticker. *recorder.SQLiteRecorder satisfies it.
type HistoryStore interface {
	History(ctx context.Context, ticker string, limit int) ([]recorder.Snapshot, error)
	Records(ctx context.Context, ticker string) ([]model.DailyRecord, error)
}

// Stores are the optional read sides of the configured recorders.
type Stores struct {
	Documents DocumentStore
	History   HistoryStore
}

// Handler serves the generation API and the output directory.
type Handler struct {
	generator Generator
	documents DocumentStore
	history   HistoryStore
	outputDir string
	timeout   time.Duration
	validate  *validator.Validate
	logger    *logger.Logger
}

type tickerParam struct {
	Ticker string `validate:"required,ticker"`
}

// NewHandler creates a Handler. Either store may be nil.
func NewHandler(gen Generator, stores Stores, outputDir string, timeout time.Duration, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	v := validator.New()
	v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		return tickerPattern.MatchString(fl.Field().String())
	})
	return &Handler{
		generator: gen,
		documents: stores.Documents,
		history:   stores.History,
		outputDir: outputDir,
		timeout:   timeout,
		validate:  v,
		logger:    log.WithField("component", "api"),
	}
}

// Ping reports liveness.
// GET /api/ping
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// Generate runs the pipeline for one ticker and records the document.
// GET /api/generate?ticker=AAPL&days=7
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ticker, ok := h.ticker(w, r.URL.Query().Get("ticker"))
	if !ok {
		return
	}
	days := parseDays(r.URL.Query().Get("days"))

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.generator.Generate(ctx, ticker, days); err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker": ticker,
			"days":   days,
		}).Error("generate failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := os.Stat(filepath.Join(h.outputDir, ticker+".json")); err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("document file not created")
		respondError(w, http.StatusInternalServerError, "file not created")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"ticker": ticker,
		"file":   path.Join(filepath.Base(filepath.Clean(h.outputDir)), ticker+".json"),
	})
}

// GetDocument returns the stored document for a ticker.
// GET /api/documents/{ticker}
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	if h.documents == nil {
		respondError(w, http.StatusNotFound, "json output is not enabled")
		return
	}
	ticker, ok := h.ticker(w, mux.Vars(r)["ticker"])
	if !ok {
		return
	}
	doc, err := h.documents.Load(ticker)
	if errors.Is(err, os.ErrNotExist) {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("read document")
		respondError(w, http.StatusInternalServerError, "failed to read document")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// GetRecords returns every daily record stored for a ticker, oldest first.
// GET /api/records/{ticker}
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusNotFound, "history is not enabled")
		return
	}
	ticker, ok := h.ticker(w, mux.Vars(r)["ticker"])
	if !ok {
		return
	}
	records, err := h.history.Records(r.Context(), ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("query records")
		respondError(w, http.StatusInternalServerError, "failed to query records")
		return
	}
	if records == nil {
		records = []model.DailyRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"ticker":  ticker,
		"records": records,
	})
}

// GetHistory lists past generations for a ticker.
// GET /api/history/{ticker}?limit=10
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusNotFound, "history is not enabled")
		return
	}
	ticker, ok := h.ticker(w, mux.Vars(r)["ticker"])
	if !ok {
		return
	}
	limit := 10
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}

	snaps, err := h.history.History(r.Context(), ticker, limit)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("query history")
		respondError(w, http.StatusInternalServerError, "failed to query history")
		return
	}

	type entry struct {
		ID          string    `json:"id"`
		Price       float64   `json:"price"`
		Change      float64   `json:"change"`
		Pct         float64   `json:"pct"`
		Records     int       `json:"records"`
		GeneratedAt time.Time `json:"generated_at"`
	}
	out := make([]entry, len(snaps))
	for i, s := range snaps {
		out[i] = entry{s.ID, s.Price, s.Change, s.Pct, s.Records, s.GeneratedAt}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"ticker":  ticker,
		"history": out,
	})
}

// Static serves the output directory. Unknown paths fall back to index.html
// when one exists.
func (h *Handler) Static() http.Handler {
	files := http.FileServer(http.Dir(h.outputDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(h.outputDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if _, err := os.Stat(name); err != nil {
			index := filepath.Join(h.outputDir, "index.html")
			if _, err := os.Stat(index); err == nil {
				http.ServeFile(w, r, index)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

func (h *Handler) ticker(w http.ResponseWriter, raw string) (string, bool) {
	p := tickerParam{Ticker: strings.ToUpper(strings.TrimSpace(raw))}
	if err := h.validate.Struct(p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid ticker")
		return "", false
	}
	return p.Ticker, true
}

// parseDays reads the leading integer of s, falling back to DefaultDays when
// there is none or it is not positive.
func parseDays(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return DefaultDays
	}
	return n
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"ok":    false,
		"error": message,
	})
}
