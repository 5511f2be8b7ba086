// Package transform applies the mapping engine across a fetched
// batch of HCS source records and aggregates the outcome.
package transform

import (
	"log/slog"

	"hcs-focus/internal/hcs"
	"hcs-focus/internal/mapping"
)

// BatchResult holds per-record outcomes in source order plus
// aggregate counts. Rejected records stay in Outcomes for reporting;
// they are only excluded from the accepted set.
type BatchResult struct {
	Outcomes []mapping.MappingOutcome
	Total    int
	Accepted int
	Rejected int
	Warned   int
}

// Transformer maps and validates batches. Records are mutually
// independent; the transformer holds no per-record state.
type Transformer struct {
	mapper    *mapping.Mapper
	validator *mapping.Validator
	log       *slog.Logger
}

// New creates a transformer over a validated registry.
func New(registry *mapping.Registry, log *slog.Logger) *Transformer {
	if log == nil {
		log = slog.Default()
	}
	return &Transformer{
		mapper:    mapping.NewMapper(registry),
		validator: mapping.NewValidator(registry),
		log:       log,
	}
}

// Transform maps and validates each record independently, preserving
// input order. It never fails as a whole: every per-record problem is
// recorded on that record's outcome.
func (t *Transformer) Transform(records []*hcs.SourceRecord) BatchResult {
	result := BatchResult{
		Outcomes: make([]mapping.MappingOutcome, 0, len(records)),
		Total:    len(records),
	}

	for _, src := range records {
		outcome := t.mapper.Map(src)
		outcome.Issues = mergeIssues(outcome.Issues, t.validator.Validate(outcome.Record))
		result.Outcomes = append(result.Outcomes, outcome)

		switch {
		case outcome.Rejected():
			result.Rejected++
		case mapping.HasWarnings(outcome.Issues):
			result.Accepted++
			result.Warned++
		default:
			result.Accepted++
		}
	}

	t.log.Info("batch transformed",
		"total", result.Total,
		"accepted", result.Accepted,
		"rejected", result.Rejected,
		"warned", result.Warned,
	)
	return result
}

// mergeIssues appends validation issues the mapper has not already
// explained: same field and code, or a field the mapper already
// failed. The defense-in-depth pass must not double-count.
func mergeIssues(mapped, validated []mapping.Issue) []mapping.Issue {
	type key struct{ field, code string }
	seen := make(map[key]struct{}, len(mapped))
	failed := make(map[string]struct{})
	for _, i := range mapped {
		seen[key{i.Field, i.Code}] = struct{}{}
		if i.Severity == mapping.SeverityError {
			failed[i.Field] = struct{}{}
		}
	}
	for _, i := range validated {
		if _, dup := seen[key{i.Field, i.Code}]; dup {
			continue
		}
		if _, dup := failed[i.Field]; dup {
			continue
		}
		mapped = append(mapped, i)
	}
	return mapped
}
