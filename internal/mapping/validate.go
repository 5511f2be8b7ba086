package mapping

import (
	"fmt"

	"hcs-focus/pkg/focus"
)

// Validator re-checks a frozen record against the registry's
// constraints. The mapper already enforces them per field; running
// the checks again over the finished record catches anything a
// derivation produced out of line, independent of how the column was
// populated.
type Validator struct {
	registry *Registry
}

// NewValidator creates a validator over an already-validated registry.
func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks nullability and enumeration constraints across the
// record. The record is not mutated.
func (v *Validator) Validate(record *focus.Record) []Issue {
	var issues []Issue
	for i := range v.registry.Rules() {
		rule := &v.registry.Rules()[i]
		value := record.Get(rule.Target)

		if value.IsNull() {
			if rule.Nullability == NonNullable {
				issues = append(issues, Issue{
					Field:    rule.Target,
					Severity: SeverityError,
					Code:     CodeConstraintViolation,
					Message:  "non-nullable column is null",
				})
			}
			continue
		}
		if rule.Enum != nil && value.Kind() == focus.KindString && !rule.Enum.Has(value.Str()) {
			issues = append(issues, Issue{
				Field:    rule.Target,
				Severity: SeverityError,
				Code:     CodeConstraintViolation,
				Message:  fmt.Sprintf("value %q is not in the %s code set", value.Str(), rule.Enum.Name),
			})
		}
	}
	return issues
}
