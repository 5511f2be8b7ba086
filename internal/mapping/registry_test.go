package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcs-focus/internal/mapping"
	"hcs-focus/pkg/focus"
)

func TestNewRegistryRejectsBadConfigurations(t *testing.T) {
	nullDerive := mapping.NewNullSynthesis()

	tests := []struct {
		name    string
		rules   []mapping.FieldRule
		opts    mapping.Options
		wantErr string
	}{
		{
			name: "duplicate target column",
			rules: []mapping.FieldRule{
				{Target: "Region", Kind: mapping.DirectRename, Source: "Region"},
				{Target: "Region", Kind: mapping.DirectRename, Source: "Region"},
			},
			wantErr: "duplicate target column",
		},
		{
			name: "forward reference",
			rules: []mapping.FieldRule{
				{Target: "AvailabilityZone", Kind: mapping.Derived, DependsOn: []string{"Region"}, Derive: nullDerive},
				{Target: "Region", Kind: mapping.DirectRename, Source: "Region"},
			},
			wantErr: "not resolved earlier",
		},
		{
			name: "dependency on itself",
			rules: []mapping.FieldRule{
				{Target: "Region", Kind: mapping.Derived, DependsOn: []string{"Region"}, Derive: nullDerive},
			},
			wantErr: "not resolved earlier",
		},
		{
			name: "derived rule without derivation",
			rules: []mapping.FieldRule{
				{Target: "Region", Kind: mapping.Derived},
			},
			wantErr: "no derivation",
		},
		{
			name: "rename rule without source",
			rules: []mapping.FieldRule{
				{Target: "Region", Kind: mapping.DirectRename},
			},
			wantErr: "names no source column",
		},
		{
			name: "missing target",
			rules: []mapping.FieldRule{
				{Kind: mapping.DirectRename, Source: "Region"},
			},
			wantErr: "no target column",
		},
		{
			name:    "unknown default currency",
			rules:   nil,
			opts:    mapping.Options{DefaultCurrency: "XQZ"},
			wantErr: "ISO 4217",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapping.NewRegistry(tt.rules, tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := mapping.DefaultRegistry(mapping.Options{DefaultCurrency: "NGN"})
	require.NoError(t, err)

	columns := reg.Columns()
	assert.Len(t, columns, 35)

	// Every column exactly once.
	seen := make(map[string]bool)
	for _, c := range columns {
		assert.False(t, seen[c], "column %s appears twice", c)
		seen[c] = true
	}

	// Output order starts with the account block and ends with the
	// provider block.
	assert.Equal(t, focus.ColBillingAccountName, columns[0])
	assert.Equal(t, focus.ColInvoiceIssuer, columns[len(columns)-1])

	// Derivations resolve strictly after their dependencies.
	position := make(map[string]int, len(columns))
	for i, c := range columns {
		position[c] = i
	}
	for _, rule := range reg.Rules() {
		for _, dep := range rule.DependsOn {
			assert.Less(t, position[dep], position[rule.Target],
				"%s must resolve before %s", dep, rule.Target)
		}
	}

	assert.Equal(t, "NGN", reg.DefaultCurrency())
}
