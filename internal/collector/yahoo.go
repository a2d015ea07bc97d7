package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"PriceDigest/internal/model"

	"golang.org/x/time/rate"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API. Columns
// are labelled the way yfinance labels them; null quotes become missing cells.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	Limiter   *rate.Limiter
	Now       func() time.Time
	SymbolMap map[string]string // maps tickers to Yahoo symbols
}

// NewYahooFetcher creates a Yahoo fetcher with optional proxy support, issuing
// at most ratePerSec requests per second (unlimited when <= 0).
func NewYahooFetcher(proxyURL string, ratePerSec float64) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		Limiter: newLimiter(ratePerSec),
		Now:     time.Now,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) FetchDailyTable(ctx context.Context, symbol string, days int) (model.RawTable, error) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	end := now().UTC()
	start := end.AddDate(0, 0, -LookbackDays(days))

	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.Unix()))
	q.Set("includeAdjustedClose", "true")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), q.Encode())

	if err := wait(ctx, f.Limiter); err != nil {
		return model.RawTable{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.RawTable{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return model.RawTable{}, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
		}
		return model.RawTable{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return model.RawTable{}, fmt.Errorf("yahoo api error: %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return model.RawTable{}, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return model.RawTable{}, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	type column struct {
		label  string
		values []interface{}
	}
	cols := []column{
		{"Open", quote.Open},
		{"High", quote.High},
		{"Low", quote.Low},
		{"Close", quote.Close},
	}
	if len(result.Indicators.AdjClose) > 0 {
		cols = append(cols, column{"Adj Close", result.Indicators.AdjClose[0].AdjClose})
	}
	cols = append(cols, column{"Volume", quote.Volume})

	table := model.RawTable{Columns: make([]string, len(cols))}
	for i, c := range cols {
		table.Columns[i] = c.label
	}
	for i, ts := range result.Timestamp {
		row := model.Row{
			Index: time.Unix(ts+result.Meta.GMTOffset, 0).UTC(),
			Cells: make(map[string]model.Cell, len(cols)),
		}
		for _, c := range cols {
			row.Cells[c.label] = toCell(at(c.values, i))
		}
		table.Rows = append(table.Rows, row)
	}

	sort.SliceStable(table.Rows, func(i, j int) bool {
		return table.Rows[i].Index.(time.Time).Before(table.Rows[j].Index.(time.Time))
	})
	return table, nil
}

func at(values []interface{}, i int) interface{} {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func toCell(v interface{}) model.Cell {
	switch n := v.(type) {
	case nil:
		return model.Cell{}
	case float64:
		return model.NumberCell(n)
	case int:
		return model.NumberCell(float64(n))
	case string:
		return parseCell(n)
	default:
		return model.TextCell(fmt.Sprint(n))
	}
}
