package gateway

import (
	"fmt"
	"strconv"
	"strings"

	"co_monitoring/internal/engine"
)

// table gives by-name cell access over a ResultSet with the coercion rules of
// the endpoint contracts: metric cells parse as float with a 0.0 fallback for
// empty or garbage values, identifier cells stay strings. A required column
// missing from a non-empty result is a query-execution error.
type table struct {
	idx  map[string]int
	rows [][]string
}

func newTable(rs engine.ResultSet, required ...string) (*table, error) {
	t := &table{idx: make(map[string]int, len(rs.Columns)), rows: rs.Rows}
	for i, c := range rs.Columns {
		t.idx[strings.ToLower(c)] = i
	}
	if len(rs.Rows) == 0 {
		return t, nil
	}
	for _, col := range required {
		if _, ok := t.idx[col]; !ok {
			return nil, fmt.Errorf("%w: result missing column %q", ErrQueryFailed, col)
		}
	}
	return t, nil
}

func (t *table) len() int { return len(t.rows) }

func (t *table) cell(row int, col string) string {
	i, ok := t.idx[col]
	if !ok || i >= len(t.rows[row]) {
		return ""
	}
	return t.rows[row][i]
}

func (t *table) str(row int, col string) string {
	return t.cell(row, col)
}

func (t *table) float(row int, col string) float64 {
	v, err := strconv.ParseFloat(t.cell(row, col), 64)
	if err != nil {
		return 0.0
	}
	return v
}

func (t *table) integer(row int, col string) int64 {
	s := t.cell(row, col)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	// aggregates may come back with a decimal point
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(v)
	}
	return 0
}
