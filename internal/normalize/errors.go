package normalize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyInput means the data source returned no rows at all.
	ErrEmptyInput = errors.New("empty input table")
	// ErrUnresolvableColumn means no column label could serve as the close.
	ErrUnresolvableColumn = errors.New("could not find a close column")
	// ErrNoValidRecords means every row was dropped by filtering or parsing.
	ErrNoValidRecords = errors.New("no valid records")
	// ErrInvalidWindow means the requested day count is not positive.
	ErrInvalidWindow = errors.New("window must be positive")
)

// PipelineError wraps one of the sentinel conditions with the context needed
// for a readable diagnostic.
type PipelineError struct {
	Kind    error
	Ticker  string
	Columns []string
}

func (e *PipelineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Ticker != "" {
		fmt.Fprintf(&b, " for %s", e.Ticker)
	}
	if e.Columns != nil {
		fmt.Fprintf(&b, " (columns: [%s])", strings.Join(e.Columns, ", "))
	}
	return b.String()
}

func (e *PipelineError) Unwrap() error { return e.Kind }
