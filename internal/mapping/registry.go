package mapping

import (
	"fmt"

	"hcs-focus/internal/hcs"
	"hcs-focus/pkg/focus"
)

// Registry is the ordered HCS → FOCUS rule set. It is validated once
// at construction, immutable afterwards, and safe for concurrent
// read-only use across transform calls.
type Registry struct {
	rules           []FieldRule
	columns         []string
	defaultCurrency string
}

// Options configure registry construction.
type Options struct {
	// DefaultCurrency backs BillingCurrency/PricingCurrency when the
	// source values carry no currency label. Empty means currency must
	// come from the data or the record errors.
	DefaultCurrency string
}

// NewRegistry validates and freezes an ordered rule set. A duplicate
// target column or a dependency on a column not resolved earlier in
// the order is a configuration error, reported here rather than per
// record.
func NewRegistry(rules []FieldRule, opts Options) (*Registry, error) {
	if opts.DefaultCurrency != "" && !focus.ValidCurrency(opts.DefaultCurrency) {
		return nil, fmt.Errorf("mapping: default currency %q is not a known ISO 4217 code", opts.DefaultCurrency)
	}

	resolved := make(map[string]struct{}, len(rules))
	columns := make([]string, 0, len(rules))
	for i, rule := range rules {
		if rule.Target == "" {
			return nil, fmt.Errorf("mapping: rule %d has no target column", i)
		}
		if _, dup := resolved[rule.Target]; dup {
			return nil, fmt.Errorf("mapping: duplicate target column %q", rule.Target)
		}
		for _, dep := range rule.DependsOn {
			if _, ok := resolved[dep]; !ok {
				return nil, fmt.Errorf("mapping: rule %q depends on %q, which is not resolved earlier in the registry", rule.Target, dep)
			}
		}
		switch rule.Kind {
		case Derived, Synthesized:
			if rule.Derive == nil {
				return nil, fmt.Errorf("mapping: rule %q is %s but has no derivation", rule.Target, rule.Kind)
			}
		default:
			if rule.Source == "" {
				return nil, fmt.Errorf("mapping: rule %q is %s but names no source column", rule.Target, rule.Kind)
			}
		}
		resolved[rule.Target] = struct{}{}
		columns = append(columns, rule.Target)
	}

	frozen := make([]FieldRule, len(rules))
	copy(frozen, rules)
	return &Registry{
		rules:           frozen,
		columns:         columns,
		defaultCurrency: opts.DefaultCurrency,
	}, nil
}

// Rules returns the rule order. Callers must not mutate it.
func (r *Registry) Rules() []FieldRule { return r.rules }

// Columns returns the FOCUS output column order.
func (r *Registry) Columns() []string { return r.columns }

// DefaultCurrency returns the configured currency fallback.
func (r *Registry) DefaultCurrency() string { return r.defaultCurrency }

// DefaultRegistry builds the full HCS ManageOne → FOCUS rule set.
func DefaultRegistry(opts Options) (*Registry, error) {
	// The CDR export labels its period columns "(UTC+01:00)"; the
	// values themselves carry no offset.
	coerceTimestamp, err := NewTimestampCoercer("+01:00")
	if err != nil {
		return nil, err
	}

	isoCurrency := &Enum{Name: "ISO 4217", Has: focus.ValidCurrency}

	rules := []FieldRule{
		{Target: focus.ColBillingAccountName, Kind: DirectRename, Source: hcs.ColTenantName, Nullability: NonNullable},
		{Target: focus.ColBillingAccountID, Kind: DirectRename, Source: hcs.ColTenantID, Nullability: NonNullable},
		{Target: focus.ColSubAccountName, Kind: DirectRename, Source: hcs.ColVDCName},
		{Target: focus.ColSubAccountID, Kind: DirectRename, Source: hcs.ColVDCID, Nullability: NonNullable},
		{
			Target:    focus.ColSubChildAccountID,
			Kind:      Derived,
			DependsOn: []string{focus.ColBillingAccountID, focus.ColSubAccountID},
			Derive:    DeriveSubChildAccountID,
		},
		{
			Target:    focus.ColSubChildAccountName,
			Kind:      Derived,
			DependsOn: []string{focus.ColBillingAccountName, focus.ColSubAccountName},
			Derive:    DeriveSubChildAccountName,
		},
		{Target: focus.ColRegion, Kind: DirectRename, Source: hcs.ColRegion},
		{
			Target:    focus.ColAvailabilityZone,
			Kind:      Derived,
			DependsOn: []string{focus.ColRegion},
			Derive:    DeriveAvailabilityZone,
		},
		{Target: focus.ColResourceSpaceName, Kind: DirectRename, Source: hcs.ColResourceSpaceName},
		{Target: focus.ColResourceSpaceID, Kind: DirectRename, Source: hcs.ColEnterpriseProjectID},
		{Target: focus.ColResourceType, Kind: DirectRename, Source: hcs.ColResourceType},
		{Target: focus.ColResourceName, Kind: DirectRename, Source: hcs.ColResourceName},
		{Target: focus.ColResourceID, Kind: DirectRename, Source: hcs.ColResourceID, Nullability: NonNullable},
		{Target: focus.ColEnterpriseProjectID, Kind: DirectRename, Source: hcs.ColEnterpriseProjectID},
		{Target: focus.ColTags, Kind: RenameWithCoercion, Source: hcs.ColTag, Coerce: CoerceTags},
		{Target: focus.ColApplicationID, Kind: Synthesized, Derive: NewNullSynthesis()},
		{Target: focus.ColApplicationName, Kind: Synthesized, Derive: NewNullSynthesis()},
		{
			Target:      focus.ColChargePeriodStart,
			Kind:        RenameWithCoercion,
			Source:      hcs.ColMeteringStarted,
			Coerce:      coerceTimestamp,
			Nullability: NonNullable,
		},
		{
			Target:      focus.ColChargePeriodEnd,
			Kind:        RenameWithCoercion,
			Source:      hcs.ColMeteringEnded,
			Coerce:      coerceTimestamp,
			Nullability: NonNullable,
		},
		{Target: focus.ColMeteringMetric, Kind: DirectRename, Source: hcs.ColMeteringMetric},
		{
			Target:            focus.ColMeteringValue,
			Kind:              RequiresClarification,
			Source:            hcs.ColMeteringValue,
			Coerce:            CoerceDecimal,
			ClarificationNote: "Metering Value semantics unresolved upstream; value copied best-effort",
		},
		{
			Target:            focus.ColMeteringUnitName,
			Kind:              RequiresClarification,
			Source:            hcs.ColMeteringUnitName,
			ClarificationNote: "Metering Unit Name semantics unresolved upstream; value copied best-effort",
		},
		{Target: focus.ColUnit, Kind: DirectRename, Source: hcs.ColUnit},
		{
			Target:            focus.ColUsage,
			Kind:              RequiresClarification,
			Source:            hcs.ColUsage,
			Coerce:            CoerceDecimal,
			ClarificationNote: "Usage semantics unresolved upstream; value copied best-effort",
		},
		{
			Target:      focus.ColUnitPrice,
			Kind:        RenameWithCoercion,
			Source:      hcs.ColUnitPrice,
			Coerce:      CoerceDecimal,
			Nullability: NonNullable,
		},
		{Target: focus.ColUnitPriceUnit, Kind: DirectRename, Source: hcs.ColUnitPriceUnit},
		{
			Target:    focus.ColPricingUnit,
			Kind:      Derived,
			DependsOn: []string{focus.ColUnitPriceUnit},
			Derive:    NewUnitCopyDerivation(focus.ColUnitPriceUnit, "PricingUnit copied from UnitPriceUnit pending Metering Unit Name clarification"),
		},
		{
			Target:      focus.ColPricingCurrency,
			Kind:        Derived,
			DependsOn:   []string{focus.ColUnitPrice},
			Derive:      NewCurrencyDerivation(focus.ColUnitPrice),
			Nullability: NonNullable,
			Enum:        isoCurrency,
		},
		{
			Target:      focus.ColPricingCurrencyListUnitPrice,
			Kind:        Derived,
			DependsOn:   []string{focus.ColUnitPrice},
			Derive:      DerivePricingListUnitPrice,
			Nullability: NonNullable,
		},
		{
			Target:      focus.ColBilledCost,
			Kind:        RenameWithCoercion,
			Source:      hcs.ColFee,
			Coerce:      CoerceDecimal,
			Nullability: NonNullable,
		},
		{
			Target:      focus.ColBillingCurrency,
			Kind:        Derived,
			DependsOn:   []string{focus.ColBilledCost, focus.ColUnitPrice},
			Derive:      NewCurrencyDerivation(focus.ColBilledCost, focus.ColUnitPrice),
			Nullability: NonNullable,
			Enum:        isoCurrency,
		},
		{
			Target:    focus.ColConsumedUnit,
			Kind:      Derived,
			DependsOn: []string{focus.ColUnit},
			Derive:    NewUnitCopyDerivation(focus.ColUnit, "ConsumedUnit copied from Unit pending Metering Unit Name clarification"),
		},
		{Target: focus.ColProvider, Kind: Synthesized, Derive: NewConstant("Huawei"), Nullability: NonNullable},
		{Target: focus.ColPublisher, Kind: Synthesized, Derive: NewConstant("MTN"), Nullability: NonNullable},
		{Target: focus.ColInvoiceIssuer, Kind: Synthesized, Derive: NewConstant("MTN"), Nullability: NonNullable},
	}

	return NewRegistry(rules, opts)
}
