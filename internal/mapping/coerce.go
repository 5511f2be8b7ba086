package mapping

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hcs-focus/pkg/focus"
)

const timestampLayout = "2006-01-02 15:04:05"

// CoerceString trims whitespace; an empty result coerces to null.
func CoerceString(raw string) (CoerceResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CoerceResult{Value: focus.Null()}, nil
	}
	return CoerceResult{Value: focus.String(trimmed)}, nil
}

// CoerceDecimal parses numeric text, stripping a leading or trailing
// ISO 4217 currency label ("1234.56 NGN", "NGN 1234.56", "(NGN)"
// parenthesised as in CDR column captions). The stripped code is
// captured in the result for the currency derivations.
func CoerceDecimal(raw string) (CoerceResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CoerceResult{Value: focus.Null()}, nil
	}

	numeric := trimmed
	currency := ""
	if fields := strings.Fields(trimmed); len(fields) == 2 {
		if code, ok := currencyToken(fields[1]); ok {
			numeric, currency = fields[0], code
		} else if code, ok := currencyToken(fields[0]); ok {
			numeric, currency = fields[1], code
		}
	}

	d, err := decimal.NewFromString(numeric)
	if err != nil {
		return CoerceResult{}, fmt.Errorf("not a decimal number: %q", raw)
	}
	return CoerceResult{Value: focus.Decimal(d), Currency: currency}, nil
}

// currencyToken recognises an ISO currency label, with or without the
// parentheses the CDR export wraps it in.
func currencyToken(tok string) (string, bool) {
	tok = strings.TrimPrefix(tok, "(")
	tok = strings.TrimSuffix(tok, ")")
	if focus.ValidCurrency(tok) {
		return tok, true
	}
	return "", false
}

// NewTimestampCoercer builds a coercer for HCS datetime values
// ("2006-01-02 15:04:05") carrying no offset of their own: the offset
// comes from the column label (e.g. "(UTC+01:00)") and is fixed per
// rule. Parsed values are normalised to UTC.
func NewTimestampCoercer(offset string) (CoerceFunc, error) {
	loc, err := parseUTCOffset(offset)
	if err != nil {
		return nil, err
	}
	return func(raw string) (CoerceResult, error) {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return CoerceResult{Value: focus.Null()}, nil
		}
		t, err := time.ParseInLocation(timestampLayout, trimmed, loc)
		if err != nil {
			return CoerceResult{}, fmt.Errorf("not a datetime in %q form: %q", timestampLayout, raw)
		}
		return CoerceResult{Value: focus.Timestamp(t.UTC())}, nil
	}, nil
}

// parseUTCOffset turns "+01:00" / "-05:30" into a fixed zone.
func parseUTCOffset(offset string) (*time.Location, error) {
	var sign rune
	var hh, mm int
	if _, err := fmt.Sscanf(offset, "%c%02d:%02d", &sign, &hh, &mm); err != nil {
		return nil, fmt.Errorf("invalid UTC offset %q: %w", offset, err)
	}
	secs := (hh*60 + mm) * 60
	switch sign {
	case '+':
	case '-':
		secs = -secs
	default:
		return nil, fmt.Errorf("invalid UTC offset %q: sign must be + or -", offset)
	}
	return time.FixedZone("UTC"+offset, secs), nil
}

// CoerceTags parses a delimited tag string ("env=prod;team=finops",
// comma-delimited also accepted) into an ordered key-value set.
// Malformed entries are dropped individually with a warning each; a
// bad entry never rejects the record.
func CoerceTags(raw string) (CoerceResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CoerceResult{Value: focus.Null()}, nil
	}

	var pairs []focus.KeyValue
	var issues []Issue
	seen := make(map[string]int)
	for _, entry := range strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeCoercionError,
				Message:  fmt.Sprintf("dropped malformed tag entry %q", entry),
			})
			continue
		}
		if i, dup := seen[key]; dup {
			// Last write wins, position of the first occurrence kept.
			pairs[i].Value = value
			continue
		}
		seen[key] = len(pairs)
		pairs = append(pairs, focus.KeyValue{Key: key, Value: value})
	}

	if len(pairs) == 0 {
		return CoerceResult{Value: focus.Null(), Issues: issues}, nil
	}
	return CoerceResult{Value: focus.KeyValueSet(pairs), Issues: issues}, nil
}
