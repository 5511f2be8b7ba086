package mapping

import "hcs-focus/pkg/focus"

// RuleKind says where a target field's value comes from.
type RuleKind int

const (
	// DirectRename copies a source column under the FOCUS name.
	DirectRename RuleKind = iota
	// RenameWithCoercion copies a source column through a typed coercer.
	RenameWithCoercion
	// Derived computes the field from already-resolved target fields.
	Derived
	// Synthesized produces the field with no source counterpart
	// (constants and intentional nulls).
	Synthesized
	// RequiresClarification copies best-effort but always flags a
	// warning: the source column's semantics are unresolved upstream.
	RequiresClarification
)

func (k RuleKind) String() string {
	switch k {
	case DirectRename:
		return "direct_rename"
	case RenameWithCoercion:
		return "rename_with_coercion"
	case Derived:
		return "derived"
	case Synthesized:
		return "synthesized"
	case RequiresClarification:
		return "requires_clarification"
	default:
		return "unknown"
	}
}

// Nullability is the field's null constraint.
type Nullability int

const (
	Nullable Nullability = iota
	NonNullable
)

// Enum restricts a string-valued field to a named code set.
type Enum struct {
	Name string
	Has  func(code string) bool
}

// CoerceResult is the outcome of coercing one raw source value.
type CoerceResult struct {
	Value focus.Value
	// Currency is the ISO code stripped off a currency-bearing value
	// ("1234.56 NGN"), recorded so currency derivations can read it.
	Currency string
	// Issues are entry-level warnings (e.g. malformed tag entries
	// dropped); the mapper stamps the field name on them.
	Issues []Issue
}

// CoerceFunc converts a raw source value into a typed target value.
// A returned error means the value could not be coerced at all.
type CoerceFunc func(raw string) (CoerceResult, error)

// DeriveFunc computes a target value from fields already resolved
// earlier in registry order. Reported issues are returned alongside
// the value; an error-severity issue rejects the record.
type DeriveFunc func(res *Resolution) (focus.Value, []Issue)

// FieldRule declares how one FOCUS target column is produced.
type FieldRule struct {
	// Target is the FOCUS column this rule resolves.
	Target string
	Kind   RuleKind
	// Source is the HCS column read by rename/clarification kinds.
	Source string
	// DependsOn lists the target columns a Derived/Synthesized rule
	// reads; each must be resolved by an earlier rule.
	DependsOn []string
	// Coerce applies to rename/clarification kinds; nil means the
	// trimmed-string coercer.
	Coerce CoerceFunc
	// Derive applies to Derived and Synthesized kinds.
	Derive DeriveFunc

	Nullability Nullability
	Enum        *Enum
	// ClarificationNote is the warning text attached by
	// RequiresClarification rules and placeholder derivations.
	ClarificationNote string
}
