package focus

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Record is one FOCUS output row: an ordered mapping from column name
// to Value. It is built incrementally by the record mapper and frozen
// before validation; a frozen record rejects further writes.
type Record struct {
	columns []string
	values  map[string]Value
	frozen  bool
}

// NewRecord creates an empty record over the given column order.
// Every column starts out null.
func NewRecord(columns []string) *Record {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Record{
		columns: cols,
		values:  make(map[string]Value, len(cols)),
	}
}

// Set assigns a value to a declared column. Setting an undeclared
// column or writing to a frozen record is a programming error.
func (r *Record) Set(column string, v Value) error {
	if r.frozen {
		return fmt.Errorf("focus: record is frozen, cannot set %q", column)
	}
	found := false
	for _, c := range r.columns {
		if c == column {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("focus: column %q not declared on record", column)
	}
	r.values[column] = v
	return nil
}

// Get returns the value of a column; absent columns read as null.
func (r *Record) Get(column string) Value {
	return r.values[column]
}

// Columns returns the column order. Callers must not mutate it.
func (r *Record) Columns() []string { return r.columns }

// Freeze marks the record complete. Subsequent Set calls fail.
func (r *Record) Freeze() { r.frozen = true }

// Frozen reports whether the record has been frozen.
func (r *Record) Frozen() bool { return r.frozen }

// Equal reports whether two records have identical column order and
// per-column values.
func (r *Record) Equal(o *Record) bool {
	if len(r.columns) != len(o.columns) {
		return false
	}
	for i, c := range r.columns {
		if o.columns[i] != c {
			return false
		}
		if !r.Get(c).Equal(o.Get(c)) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the record as a single JSON object whose keys
// appear in column order, null columns included, so every output row
// carries exactly the FOCUS column set.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := r.Get(c).MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
