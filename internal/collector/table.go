package collector

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"PriceDigest/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"20060102",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01-02-06",
}

// Tokens read as missing, following the usual spreadsheet/pandas conventions.
var missingTokens = map[string]bool{
	"": true, "nan": true, "-nan": true, "na": true, "n/a": true, "#n/a": true,
	"null": true, "none": true,
}

// ParseCSVTable reads a CSV whose first column is the date index and whose
// header names the remaining columns.
func ParseCSVTable(r io.Reader) (model.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return model.RawTable{}, fmt.Errorf("read csv: %w", err)
	}
	return TableFromRecords(records)
}

// TableFromRecords builds a table from a header row followed by data rows.
// Short rows leave their trailing cells missing. A repeated label keeps the
// first column's value.
func TableFromRecords(records [][]string) (model.RawTable, error) {
	if len(records) == 0 {
		return model.RawTable{}, nil
	}
	header := records[0]
	if len(header) < 2 {
		return model.RawTable{}, fmt.Errorf("header needs a date column and at least one value column, got %d columns", len(header))
	}

	table := model.RawTable{Columns: make([]string, 0, len(header)-1)}
	for _, h := range header[1:] {
		table.Columns = append(table.Columns, strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	for _, rec := range records[1:] {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		row := model.Row{
			Index: parseIndex(rec[0]),
			Cells: make(map[string]model.Cell, len(table.Columns)),
		}
		for i, label := range table.Columns {
			if _, dup := row.Cells[label]; dup {
				continue
			}
			if i+1 < len(rec) {
				row.Cells[label] = parseCell(rec[i+1])
			} else {
				row.Cells[label] = model.Cell{}
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func parseIndex(s string) any {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return s
}

func parseCell(s string) model.Cell {
	s = strings.TrimSpace(s)
	if missingTokens[strings.ToLower(s)] {
		return model.Cell{}
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil && !math.IsInf(v, 0) {
		return model.NumberCell(v)
	}
	return model.TextCell(s)
}
