// Package focus defines the FOCUS (FinOps Open Cost & Usage
// Specification) output schema: the column set produced by the
// HCS transformation, the typed values a column may hold, and the
// ordered record that carries one billing line item.
package focus

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// ValueKind discriminates the typed variants a FOCUS column value can take.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindDecimal
	KindTimestamp
	KindKeyValue
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindDecimal:
		return "decimal"
	case KindTimestamp:
		return "timestamp"
	case KindKeyValue:
		return "key_value"
	default:
		return "unknown"
	}
}

// KeyValue is one entry of a key-value set column (Tags).
type KeyValue struct {
	Key   string
	Value string
}

// Value is a tagged variant holding one FOCUS column value.
// The zero Value is null.
type Value struct {
	kind ValueKind
	str  string
	dec  decimal.Decimal
	ts   time.Time
	kv   []KeyValue
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Decimal wraps a decimal value.
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, dec: d} }

// Timestamp wraps a UTC timestamp value.
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, ts: t.UTC()} }

// KeyValueSet wraps an ordered set of key-value pairs.
func KeyValueSet(pairs []KeyValue) Value {
	return Value{kind: KindKeyValue, kv: pairs}
}

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload; zero unless Kind is KindString.
func (v Value) Str() string { return v.str }

// Dec returns the decimal payload; zero unless Kind is KindDecimal.
func (v Value) Dec() decimal.Decimal { return v.dec }

// Time returns the timestamp payload; zero unless Kind is KindTimestamp.
func (v Value) Time() time.Time { return v.ts }

// Pairs returns the key-value payload; nil unless Kind is KindKeyValue.
func (v Value) Pairs() []KeyValue { return v.kv }

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindDecimal:
		return v.dec.Equal(o.dec)
	case KindTimestamp:
		return v.ts.Equal(o.ts)
	case KindKeyValue:
		if len(v.kv) != len(o.kv) {
			return false
		}
		for i := range v.kv {
			if v.kv[i] != o.kv[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindDecimal:
		return v.dec.String()
	case KindTimestamp:
		return v.ts.Format(time.RFC3339)
	case KindKeyValue:
		return fmt.Sprintf("%v", v.kv)
	default:
		return ""
	}
}

// MarshalJSON renders the value in its FOCUS wire form: null, JSON
// string, JSON number, RFC 3339 UTC string, or a JSON object whose
// key order matches the pair order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindDecimal:
		// Emit as a bare JSON number to keep full decimal precision.
		return []byte(v.dec.String()), nil
	case KindTimestamp:
		return json.Marshal(v.ts.Format(time.RFC3339))
	case KindKeyValue:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, p := range v.kv {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(p.Key)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(p.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("focus: cannot marshal value of kind %d", v.kind)
	}
}
