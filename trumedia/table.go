package trumedia

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// Table is a parsed CSV response from the stats API. Headers are
// whitespace-trimmed at parse time because the API pads some column
// names, which would otherwise defeat every lookup.
type Table struct {
	Headers []string
	Rows    [][]string

	// Label tags the table with the fetch that produced it, e.g. the
	// pitch-type group name. Carried through Append.
	Label string
}

// ParseTable reads CSV text into a Table. Empty input yields an empty
// table, not an error; the API answers filtered-to-nothing queries with
// a bare newline.
func ParseTable(text string) (*Table, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &Table{}, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &Table{Headers: headers, Rows: records[1:]}, nil
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the values of the first column matching any of the
// given names, or nil. Callers pass fallbacks in preference order
// because the API names rate columns inconsistently across endpoints
// ("P|PIT" on some, plain "P" on others).
func (t *Table) Column(names ...string) []string {
	if t.Empty() {
		return nil
	}
	for _, name := range names {
		for i, h := range t.Headers {
			if h != name {
				continue
			}
			out := make([]string, 0, len(t.Rows))
			for _, row := range t.Rows {
				if i < len(row) {
					out = append(out, row[i])
				}
			}
			return out
		}
	}
	return nil
}

// Numbers parses a column to floats, stripping any % suffix and skipping
// values that do not parse.
func (t *Table) Numbers(names ...string) []float64 {
	var out []float64
	for _, v := range t.Column(names...) {
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Mean averages the parseable values of a column; ok is false when none
// parse.
func (t *Table) Mean(names ...string) (float64, bool) {
	nums := t.Numbers(names...)
	if len(nums) == 0 {
		return 0, false
	}
	var sum float64
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums)), true
}

// Sum totals the parseable values of a column.
func (t *Table) Sum(names ...string) float64 {
	var sum float64
	for _, n := range t.Numbers(names...) {
		sum += n
	}
	return sum
}

// Max returns the largest parseable value of a column; ok is false when
// none parse.
func (t *Table) Max(names ...string) (float64, bool) {
	nums := t.Numbers(names...)
	if len(nums) == 0 {
		return 0, false
	}
	m := nums[0]
	for _, n := range nums[1:] {
		if n > m {
			m = n
		}
	}
	return m, true
}

// First returns the first value of a column, or "".
func (t *Table) First(names ...string) string {
	col := t.Column(names...)
	if len(col) == 0 {
		return ""
	}
	return col[0]
}
