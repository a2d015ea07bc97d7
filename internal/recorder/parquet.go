package recorder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"PriceDigest/internal/model"

	"github.com/parquet-go/parquet-go"
)

// ParquetRecorder writes the series of each document to Dir/<TICKER>.parquet.
type ParquetRecorder struct {
	Dir string
	mu  sync.Mutex
}

func NewParquetRecorder(dir string) (*ParquetRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &ParquetRecorder{Dir: dir}, nil
}

// Path returns the parquet file for ticker.
func (r *ParquetRecorder) Path(ticker string) string {
	return filepath.Join(r.Dir, strings.ToUpper(ticker)+".parquet")
}

func (r *ParquetRecorder) Record(ctx context.Context, doc *model.MarketDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := parquet.WriteFile(r.Path(doc.Ticker), doc.Series); err != nil {
		return fmt.Errorf("write parquet for %s: %w", doc.Ticker, err)
	}
	return nil
}

func (r *ParquetRecorder) Close() error { return nil }
