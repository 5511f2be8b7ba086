package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcs-focus/internal/mapping"
	"hcs-focus/pkg/focus"
)

func TestValidateCleanRecordPasses(t *testing.T) {
	reg, err := mapping.DefaultRegistry(mapping.Options{DefaultCurrency: "NGN"})
	require.NoError(t, err)

	outcome := mapping.NewMapper(reg).Map(validSource())
	require.False(t, outcome.Rejected())

	issues := mapping.NewValidator(reg).Validate(outcome.Record)
	assert.Empty(t, issues)
}

func TestValidateCatchesConstraintViolations(t *testing.T) {
	reg, err := mapping.DefaultRegistry(mapping.Options{DefaultCurrency: "NGN"})
	require.NoError(t, err)
	v := mapping.NewValidator(reg)

	t.Run("null non-nullable column", func(t *testing.T) {
		rec := focus.NewRecord(reg.Columns())
		rec.Freeze()

		issues := v.Validate(rec)
		require.NotEmpty(t, issues)

		fields := make(map[string]bool)
		for _, i := range issues {
			assert.Equal(t, mapping.SeverityError, i.Severity)
			assert.Equal(t, mapping.CodeConstraintViolation, i.Code)
			fields[i.Field] = true
		}
		assert.True(t, fields[focus.ColBillingAccountID])
		assert.True(t, fields[focus.ColBilledCost])
	})

	t.Run("currency outside the ISO set", func(t *testing.T) {
		outcome := mapping.NewMapper(reg).Map(validSource())
		// Re-build the record with a bogus currency; validation is
		// independent of how the column was populated.
		rec := focus.NewRecord(reg.Columns())
		for _, col := range outcome.Record.Columns() {
			rec.Set(col, outcome.Record.Get(col))
		}
		rec.Set(focus.ColBillingCurrency, focus.String("XQZ"))
		rec.Freeze()

		issues := v.Validate(rec)
		require.Len(t, issues, 1)
		assert.Equal(t, focus.ColBillingCurrency, issues[0].Field)
		assert.Equal(t, mapping.CodeConstraintViolation, issues[0].Code)
		assert.Contains(t, issues[0].Message, "ISO 4217")
	})

	t.Run("does not mutate the record", func(t *testing.T) {
		outcome := mapping.NewMapper(reg).Map(validSource())
		before, err := outcome.Record.MarshalJSON()
		require.NoError(t, err)

		v.Validate(outcome.Record)

		after, err := outcome.Record.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}
