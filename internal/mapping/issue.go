// Package mapping implements the HCS → FOCUS field mapping engine:
// the declarative rule registry, value coercion, derivation of
// synthetic fields, per-record mapping, and constraint validation.
package mapping

import "fmt"

// Severity indicates the impact of an issue on the record.
type Severity int

const (
	// SeverityWarning leaves the field null or best-effort; the record
	// is still emitted.
	SeverityWarning Severity = iota
	// SeverityError excludes the record from the accepted set.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Issue codes.
const (
	CodeMissingSourceField    = "missing_source_field"
	CodeCoercionError         = "coercion_error"
	CodeConstraintViolation   = "constraint_violation"
	CodeClarificationPending  = "clarification_pending"
	CodeDerivationUnavailable = "derivation_unavailable"
)

// Issue records one problem resolving or validating a target field.
type Issue struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s %s: %s", i.Severity, i.Field, i.Code, i.Message)
}

// HasErrors reports whether any issue in the list is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any issue in the list is a warning.
func HasWarnings(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityWarning {
			return true
		}
	}
	return false
}
