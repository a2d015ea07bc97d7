package collector

import (
	"fmt"

	"PriceDigest/internal/config"
)

// NewFetcher builds the data source named by cfg.DataSource.Provider.
func NewFetcher(cfg *config.Config) (Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "", "yahoo":
		return NewYahooFetcher(cfg.Proxy, ds.RatePerSec), nil
	case "http-csv":
		return NewHTTPCSVFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.RatePerSec), nil
	case "file":
		return NewFileFetcher(ds.Dir), nil
	case "mock":
		return &MockFetcher{Price: 100}, nil
	}
	return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
}
