package excel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RowError describes one skipped spreadsheet row. Imports collect these
// instead of aborting; the caller reports them.
type RowError struct {
	Sheet  string
	Line   int
	Field  string
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: field %q %s", e.Sheet, e.Line, e.Field, e.Reason)
}

// rowReader walks one data row, matching cells by header name and recording
// the first malformed field. A row with any recorded failure is skipped as a
// whole; typed values are never silently coerced.
type rowReader struct {
	sheet string
	line  int
	cols  map[string]int
	cells []string
	err   *RowError
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	return cols
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r *rowReader) fail(field, reason string) {
	if r.err == nil {
		r.err = &RowError{Sheet: r.sheet, Line: r.line, Field: field, Reason: reason}
	}
}

func (r *rowReader) cell(field string) (string, bool) {
	idx, ok := r.cols[field]
	if !ok || idx >= len(r.cells) {
		return "", false
	}
	return strings.TrimSpace(r.cells[idx]), true
}

func (r *rowReader) str(field string) string {
	v, _ := r.cell(field)
	return v
}

func (r *rowReader) required(field string) string {
	v, ok := r.cell(field)
	if !ok || v == "" {
		r.fail(field, "is missing")
	}
	return v
}

// timestamp parses a required RFC3339 value and returns it verbatim so the
// stored string round-trips byte-for-byte.
func (r *rowReader) timestamp(field string) string {
	v := r.required(field)
	if v == "" {
		return ""
	}
	if _, err := time.Parse(time.RFC3339, v); err != nil {
		r.fail(field, "is not a valid RFC3339 timestamp")
	}
	return v
}

func (r *rowReader) optionalTimestamp(field string) string {
	v := r.str(field)
	if v == "" {
		return ""
	}
	if _, err := time.Parse(time.RFC3339, v); err != nil {
		r.fail(field, "is not a valid RFC3339 timestamp")
	}
	return v
}

// intCell treats an empty cell as zero but rejects anything non-numeric.
func (r *rowReader) intCell(field string) int {
	v := r.str(field)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(field, "is not a whole number")
		return 0
	}
	return n
}

// decimalCell parses a required monetary value. A missing or malformed cell
// marks the row, never a silent zero.
func (r *rowReader) decimalCell(field string) decimal.Decimal {
	v, ok := r.cell(field)
	if !ok || v == "" {
		r.fail(field, "is missing")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		r.fail(field, "is not a valid number")
		return decimal.Zero
	}
	return d
}
