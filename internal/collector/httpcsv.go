package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"PriceDigest/internal/model"

	"golang.org/x/time/rate"
)

// HTTPCSVFetcher implements Fetcher for providers that serve daily history as
// CSV. URLTemplate may contain {symbol}, {days}, {from} and {to}; the dates
// are rendered as YYYYMMDD.
type HTTPCSVFetcher struct {
	URLTemplate string
	APIKey      string
	Client      *http.Client
	Limiter     *rate.Limiter
	Now         func() time.Time
}

// NewHTTPCSVFetcher creates a fetcher with optional proxy support.
func NewHTTPCSVFetcher(urlTemplate, apiKey, proxyURL string, ratePerSec float64) *HTTPCSVFetcher {
	return &HTTPCSVFetcher{
		URLTemplate: urlTemplate,
		APIKey:      apiKey,
		Client:      newHTTPClient(proxyURL),
		Limiter:     newLimiter(ratePerSec),
		Now:         time.Now,
	}
}

func (f *HTTPCSVFetcher) Name() string { return "http-csv" }

func (f *HTTPCSVFetcher) endpoint(symbol string, days int) string {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	end := now().UTC()
	start := end.AddDate(0, 0, -LookbackDays(days))
	return strings.NewReplacer(
		"{symbol}", url.PathEscape(symbol),
		"{days}", strconv.Itoa(LookbackDays(days)),
		"{from}", start.Format("20060102"),
		"{to}", end.Format("20060102"),
	).Replace(f.URLTemplate)
}

func (f *HTTPCSVFetcher) FetchDailyTable(ctx context.Context, symbol string, days int) (model.RawTable, error) {
	if err := wait(ctx, f.Limiter); err != nil {
		return model.RawTable{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint(symbol, days), nil)
	if err != nil {
		return model.RawTable{}, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("fetch csv: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return model.RawTable{}, fmt.Errorf("fetch csv: status %d, body: %s", resp.StatusCode, string(body))
	}
	table, err := ParseCSVTable(resp.Body)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("decode csv: %w", err)
	}
	return table, nil
}
