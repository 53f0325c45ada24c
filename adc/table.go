package adc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/ifcb/schema"
)

// Record is one target's fields, indexed by the schema's column indices.
type Record []float64

// Int returns field i truncated to an int. Geometry and byte offset columns
// hold integral values.
func (r Record) Int(i int) int { return int(r[i]) }

// Table is the ordered, read-only collection of a bin's records. Keys are
// target numbers, contiguous and 1-based for a full parse.
type Table struct {
	schema schema.Schema
	rows   []Record
	start  int
}

// Parse reads every record from r.
//
// An input with no records yields an empty table, not an error. Blank lines
// are skipped and do not consume a target number.
func Parse(r io.Reader, s schema.Schema, optFns ...Option) (*Table, error) {
	return parse(r, s, 1, 0, applyOptions(optFns))
}

// ParseFile parses the .adc file at path.
func ParseFile(path string, s schema.Schema, optFns ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, s, optFns...)
}

// ParseRange parses only targets in [start, end), numbered from start. Reading
// stops after target end-1, so a single target near the top of a large file is
// cheap to fetch.
func ParseRange(r io.Reader, s schema.Schema, start, end int, optFns ...Option) (*Table, error) {
	if start < 1 || end < start {
		return nil, fmt.Errorf("adc: invalid target range [%d, %d)", start, end)
	}
	return parse(r, s, start, end, applyOptions(optFns))
}

// parse reads records numbered [start, end). end == 0 means no upper bound.
func parse(r io.Reader, s schema.Schema, start, end int, o options) (*Table, error) {
	if s.IsZero() {
		return nil, schema.ErrUnknownSchema
	}
	t := &Table{schema: s, start: start}
	if end > 0 && end == start {
		return t, nil
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	for target := 1; ; target++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var line int
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &ParseError{Line: line, cause: err}
		}
		if target < start {
			continue
		}

		rec, err := parseRecord(cr, fields, s, target, o.fieldPolicy)
		if err != nil {
			return nil, err
		}
		t.rows = append(t.rows, rec)

		if end > 0 && target == end-1 {
			break
		}
	}
	return t, nil
}

func parseRecord(cr *csv.Reader, fields []string, s schema.Schema, target int, policy FieldPolicy) (Record, error) {
	want := s.NumColumns()
	if got := len(fields); got != want {
		tolerated := (policy == FieldsPad && got < want) || (policy == FieldsTruncate && got > want)
		if !tolerated {
			line, _ := cr.FieldPos(0)
			return nil, &FieldCountError{Target: target, Line: line, Expected: want, Actual: got}
		}
		if got > want {
			fields = fields[:want]
		}
	}

	rec := make(Record, want)
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			line, col := cr.FieldPos(i)
			return nil, &ParseError{Line: line, Column: col, Value: field, cause: err}
		}
		rec[i] = v
	}
	return rec, nil
}

// Schema returns the table's column layout.
func (t *Table) Schema() schema.Schema { return t.schema }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.rows) }

// Keys returns the target numbers in acquisition order.
func (t *Table) Keys() []int {
	keys := make([]int, len(t.rows))
	for i := range keys {
		keys[i] = t.start + i
	}
	return keys
}

// Contains reports whether target n is in the table.
func (t *Table) Contains(n int) bool {
	return n >= t.start && n < t.start+len(t.rows)
}

// Get returns the record of target n. The returned slice is shared and must
// not be modified.
func (t *Table) Get(n int) (Record, error) {
	if !t.Contains(n) {
		return nil, notFound(n)
	}
	return t.rows[n-t.start], nil
}

// All iterates over target numbers and records in acquisition order.
func (t *Table) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, rec := range t.rows {
			if !yield(t.start+i, rec) {
				return
			}
		}
	}
}
