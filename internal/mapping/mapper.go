package mapping

import (
	"fmt"

	"hcs-focus/internal/hcs"
	"hcs-focus/pkg/focus"
)

// MappingOutcome pairs one mapped FOCUS record, possibly partial,
// with every issue raised while producing it.
type MappingOutcome struct {
	Record *focus.Record
	Issues []Issue
}

// Rejected reports whether the record carries an error-severity issue
// and is excluded from the accepted set.
func (o MappingOutcome) Rejected() bool { return HasErrors(o.Issues) }

// Mapper applies the rule registry to single source records.
type Mapper struct {
	registry *Registry
}

// NewMapper creates a mapper over an already-validated registry.
func NewMapper(registry *Registry) *Mapper {
	return &Mapper{registry: registry}
}

// Map transforms one source record. Rules are evaluated strictly in
// registry order; every failure becomes an Issue and mapping always
// runs to the end, so callers see all of a record's problems in one
// pass. The returned record is frozen.
func (m *Mapper) Map(src *hcs.SourceRecord) MappingOutcome {
	record := focus.NewRecord(m.registry.Columns())
	res := &Resolution{
		record:          record,
		currencies:      make(map[string]string),
		defaultCurrency: m.registry.DefaultCurrency(),
	}

	var issues []Issue
	for i := range m.registry.Rules() {
		rule := &m.registry.Rules()[i]
		value, ruleIssues := m.applyRule(rule, src, res)
		for j := range ruleIssues {
			ruleIssues[j].Field = rule.Target
		}
		issues = append(issues, ruleIssues...)

		// The column set comes from the registry, so Set cannot fail.
		record.Set(rule.Target, value)
	}

	record.Freeze()
	return MappingOutcome{Record: record, Issues: issues}
}

func (m *Mapper) applyRule(rule *FieldRule, src *hcs.SourceRecord, res *Resolution) (focus.Value, []Issue) {
	switch rule.Kind {
	case Derived, Synthesized:
		value, issues := rule.Derive(res)
		issues = append(issues, checkConstraint(rule, value, issues)...)
		return value, issues
	default:
		return m.resolveFromSource(rule, src, res)
	}
}

func (m *Mapper) resolveFromSource(rule *FieldRule, src *hcs.SourceRecord, res *Resolution) (focus.Value, []Issue) {
	var issues []Issue

	coerce := rule.Coerce
	if coerce == nil {
		coerce = CoerceString
	}

	raw, present := src.Get(rule.Source)
	value := focus.Null()
	if !present {
		if rule.Nullability == NonNullable {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeMissingSourceField,
				Message:  fmt.Sprintf("required source column %q absent from source record", rule.Source),
			})
		}
	} else {
		result, err := coerce(raw)
		if err != nil {
			severity := SeverityWarning
			if rule.Nullability == NonNullable {
				severity = SeverityError
			}
			issues = append(issues, Issue{
				Severity: severity,
				Code:     CodeCoercionError,
				Message:  err.Error(),
			})
		} else {
			value = result.Value
			issues = append(issues, result.Issues...)
			if result.Currency != "" {
				res.currencies[rule.Target] = result.Currency
			}
		}
	}

	if rule.Kind == RequiresClarification {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeClarificationPending,
			Message:  rule.ClarificationNote,
		})
	}

	issues = append(issues, checkConstraint(rule, value, issues)...)
	return value, issues
}

// checkConstraint enforces nullability and enumeration during
// mapping. A null on a non-nullable field only raises a fresh
// constraint violation when no earlier issue already explains it.
func checkConstraint(rule *FieldRule, value focus.Value, existing []Issue) []Issue {
	var issues []Issue
	if value.IsNull() {
		if rule.Nullability == NonNullable && !HasErrors(existing) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeConstraintViolation,
				Message:  "non-nullable column resolved to null",
			})
		}
		return issues
	}
	if rule.Enum != nil && value.Kind() == focus.KindString && !rule.Enum.Has(value.Str()) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeConstraintViolation,
			Message:  fmt.Sprintf("value %q is not in the %s code set", value.Str(), rule.Enum.Name),
		})
	}
	return issues
}
