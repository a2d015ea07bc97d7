package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"PriceDigest/internal/model"

	"github.com/xuri/excelize/v2"
)

// FileFetcher reads <SYMBOL>.csv or <SYMBOL>.xlsx from Dir. The whole file is
// returned; windowing is left to the normalization pipeline.
type FileFetcher struct {
	Dir string
}

// NewFileFetcher creates a fetcher over a directory of exported tables.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Dir: dir}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchDailyTable(ctx context.Context, symbol string, _ int) (model.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return model.RawTable{}, err
	}
	for _, name := range []string{strings.ToUpper(symbol), strings.ToLower(symbol), symbol} {
		for _, ext := range []string{".csv", ".xlsx"} {
			path := filepath.Join(f.Dir, name+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if ext == ".xlsx" {
				return readSheet(path)
			}
			return readCSVFile(path)
		}
	}
	return model.RawTable{}, fmt.Errorf("no table for %s in %s: %w", symbol, f.Dir, os.ErrNotExist)
}

func readCSVFile(path string) (model.RawTable, error) {
	fh, err := os.Open(path)
	if err != nil {
		return model.RawTable{}, err
	}
	defer fh.Close()
	table, err := ParseCSVTable(fh)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// readSheet reads the first worksheet of an xlsx workbook.
func readSheet(path string) (model.RawTable, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return model.RawTable{}, errors.New("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return model.RawTable{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return TableFromRecords(rows)
}
