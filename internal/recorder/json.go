package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"PriceDigest/internal/model"
)

// LatestFile is the fixed name of the most recently generated document.
const LatestFile = "data.json"

// JSONRecorder writes each document twice with identical content: once to
// Dir/data.json and once to Dir/<TICKER>.json.
type JSONRecorder struct {
	Dir string
	mu  sync.Mutex
}

// NewJSONRecorder creates the output directory if needed.
func NewJSONRecorder(dir string) (*JSONRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &JSONRecorder{Dir: dir}, nil
}

// TickerPath returns the per-ticker document path.
func (r *JSONRecorder) TickerPath(ticker string) string {
	return filepath.Join(r.Dir, strings.ToUpper(ticker)+".json")
}

func (r *JSONRecorder) Record(ctx context.Context, doc *model.MarketDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, path := range []string{filepath.Join(r.Dir, LatestFile), r.TickerPath(doc.Ticker)} {
		if err := writeFileAtomic(path, data); err != nil {
			return err
		}
	}
	return nil
}

// Load reads back the stored document for ticker.
func (r *JSONRecorder) Load(ticker string) (*model.MarketDocument, error) {
	data, err := os.ReadFile(r.TickerPath(ticker))
	if err != nil {
		return nil, err
	}
	var doc model.MarketDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ticker, err)
	}
	return &doc, nil
}

func (r *JSONRecorder) Close() error { return nil }

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
