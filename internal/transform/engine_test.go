package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcs-focus/internal/hcs"
	"hcs-focus/internal/mapping"
	"hcs-focus/internal/transform"
	"hcs-focus/pkg/focus"
)

func sourceRecord(resourceID string) *hcs.SourceRecord {
	rec := hcs.NewSourceRecord()
	rec.Set(hcs.ColTenantName, "MTN Nigeria")
	rec.Set(hcs.ColTenantID, "tenant-001")
	rec.Set(hcs.ColVDCName, "Core Banking VDC")
	rec.Set(hcs.ColVDCID, "vdc-042")
	rec.Set(hcs.ColRegion, "lagos-mtn-1")
	rec.Set(hcs.ColResourceType, "hws.resource.type.volume")
	rec.Set(hcs.ColResourceName, "data-volume")
	if resourceID != "" {
		rec.Set(hcs.ColResourceID, resourceID)
	}
	rec.Set(hcs.ColEnterpriseProjectID, "ep-9")
	rec.Set(hcs.ColTag, "env=prod")
	rec.Set(hcs.ColMeteringStarted, "2024-01-15 10:00:00")
	rec.Set(hcs.ColMeteringEnded, "2024-01-15 11:00:00")
	rec.Set(hcs.ColMeteringMetric, "DURATION")
	rec.Set(hcs.ColMeteringValue, "3600")
	rec.Set(hcs.ColMeteringUnitName, "GB-hour")
	rec.Set(hcs.ColUnit, "GB")
	rec.Set(hcs.ColUsage, "3600")
	rec.Set(hcs.ColUnitPrice, "12.5 NGN")
	rec.Set(hcs.ColUnitPriceUnit, "GB")
	rec.Set(hcs.ColFee, "45000 NGN")
	return rec
}

func newTransformer(t *testing.T) *transform.Transformer {
	t.Helper()
	reg, err := mapping.DefaultRegistry(mapping.Options{DefaultCurrency: "NGN"})
	require.NoError(t, err)
	return transform.New(reg, nil)
}

func TestTransformAggregatesOutcomes(t *testing.T) {
	tr := newTransformer(t)

	batch := []*hcs.SourceRecord{
		sourceRecord("res-1"),
		sourceRecord(""), // missing required Resource ID
		sourceRecord("res-3"),
	}

	result := tr.Transform(batch)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Accepted)
	assert.Equal(t, 1, result.Rejected)
	// Clarification warnings mean every accepted record is warned.
	assert.Equal(t, 2, result.Warned)

	require.Len(t, result.Outcomes, 3)
	assert.False(t, result.Outcomes[0].Rejected())
	assert.True(t, result.Outcomes[1].Rejected())
	assert.False(t, result.Outcomes[2].Rejected())

	// Order preserved: outcome i belongs to record i.
	assert.Equal(t, "res-1", result.Outcomes[0].Record.Get(focus.ColResourceID).Str())
	assert.Equal(t, "res-3", result.Outcomes[2].Record.Get(focus.ColResourceID).Str())
}

func TestTransformMatchesIndividualMapping(t *testing.T) {
	tr := newTransformer(t)

	batch := []*hcs.SourceRecord{
		sourceRecord("res-1"),
		sourceRecord(""),
		sourceRecord("res-3"),
	}

	asBatch := tr.Transform(batch)

	for i, src := range batch {
		single := tr.Transform([]*hcs.SourceRecord{src})
		require.Len(t, single.Outcomes, 1)
		assert.True(t, single.Outcomes[0].Record.Equal(asBatch.Outcomes[i].Record),
			"record %d differs between batch and individual transform", i)
		assert.Equal(t, single.Outcomes[0].Issues, asBatch.Outcomes[i].Issues)
	}
}

func TestTransformEmptyBatch(t *testing.T) {
	result := newTransformer(t).Transform(nil)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Outcomes)
	assert.Equal(t, 0, result.Accepted)
	assert.Equal(t, 0, result.Rejected)
}

func TestTransformDoesNotDoubleCountValidation(t *testing.T) {
	tr := newTransformer(t)

	// The mapper already reports the missing Resource ID; the
	// validation pass must not add a second issue for the same field.
	result := tr.Transform([]*hcs.SourceRecord{sourceRecord("")})
	require.Len(t, result.Outcomes, 1)

	count := 0
	for _, i := range result.Outcomes[0].Issues {
		if i.Field == focus.ColResourceID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
