package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v5"
)

// Role is one of the semantic fields located among raw column labels.
type Role string

const (
	RoleClose  Role = "close"
	RoleHigh   Role = "high"
	RoleLow    Role = "low"
	RoleVolume Role = "volume"
)

// Roles lists every role in resolution order.
var Roles = []Role{RoleClose, RoleHigh, RoleLow, RoleVolume}

// ColumnMap maps a role to the raw column label resolved for it.
// A role without an entry could not be resolved.
type ColumnMap map[Role]string

// Label returns the label resolved for role, if any.
func (m ColumnMap) Label(role Role) (string, bool) {
	label, ok := m[role]
	return label, ok
}

// Cell is one raw table value. Num carries the numeric payload; Text keeps a
// non-numeric payload so it can be parsed (or rejected) later. A cell with
// neither is missing.
type Cell struct {
	Num  null.Float
	Text string
}

// NumberCell returns a cell holding v. NaN is stored as missing.
func NumberCell(v float64) Cell {
	if math.IsNaN(v) {
		return Cell{}
	}
	return Cell{Num: null.FloatFrom(v)}
}

// TextCell returns a cell holding the raw text s. Blank text is missing.
func TextCell(s string) Cell {
	return Cell{Text: strings.TrimSpace(s)}
}

// Missing reports whether the cell carries no value at all.
func (c Cell) Missing() bool {
	if c.Num.Valid {
		return math.IsNaN(c.Num.Float64)
	}
	return c.Text == ""
}

// Float interprets the cell as a number. Text payloads are parsed with
// thousands separators stripped.
func (c Cell) Float() (float64, error) {
	if c.Num.Valid {
		if math.IsNaN(c.Num.Float64) || math.IsInf(c.Num.Float64, 0) {
			return 0, fmt.Errorf("value %v is not finite", c.Num.Float64)
		}
		return c.Num.Float64, nil
	}
	if c.Text == "" {
		return 0, fmt.Errorf("value is missing")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(c.Text, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", c.Text, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %q is not finite", c.Text)
	}
	return v, nil
}

// Row is one raw observation. Index is the provider's date-like key.
type Row struct {
	Index any
	Cells map[string]Cell
}

// Cell returns the cell stored under label. Absent labels yield a missing cell.
func (r Row) Cell(label string) Cell {
	if r.Cells == nil {
		return Cell{}
	}
	return r.Cells[label]
}

// RawTable is the loosely-structured daily table handed over by a data source.
// Columns keeps the provider's label order, which column resolution relies on.
type RawTable struct {
	Columns []string
	Rows    []Row
}

// Empty reports whether the table has no rows.
func (t RawTable) Empty() bool {
	return len(t.Rows) == 0
}

// FormatDate renders a row index as a calendar date. Time values use
// 2006-01-02; anything else is coerced with fmt.Sprint on a best-effort basis.
func FormatDate(index any) string {
	switch v := index.(type) {
	case time.Time:
		return v.Format("2006-01-02")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("2006-01-02")
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
