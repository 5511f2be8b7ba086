package mapping

import (
	"fmt"
	"strings"

	"hcs-focus/pkg/focus"
)

// Resolution is the read-only view of fields resolved so far, handed
// to derivation functions. It also exposes currency codes captured
// during decimal coercion and the registry's default currency.
type Resolution struct {
	record          *focus.Record
	currencies      map[string]string
	defaultCurrency string
}

// Field returns the resolved value of an earlier target column;
// unresolved columns read as null.
func (r *Resolution) Field(column string) focus.Value {
	return r.record.Get(column)
}

// Currency returns the currency code captured while coercing the
// given target column, if any.
func (r *Resolution) Currency(column string) (string, bool) {
	code, ok := r.currencies[column]
	return code, ok
}

// DefaultCurrency is the deployment-wide billing currency fallback;
// empty when the deployment requires currency-bearing values.
func (r *Resolution) DefaultCurrency() string { return r.defaultCurrency }

// DeriveAvailabilityZone copies the resolved Region. The CDR carries
// an AZ code whose relationship to the FOCUS AvailabilityZone is
// still unconfirmed, so Region stands in and every record is flagged
// until the finer-grained source is agreed.
func DeriveAvailabilityZone(res *Resolution) (focus.Value, []Issue) {
	region := res.Field(focus.ColRegion)
	warn := []Issue{{
		Severity: SeverityWarning,
		Code:     CodeClarificationPending,
		Message:  "AvailabilityZone set equal to Region; finer-grained sub-partition source not yet defined",
	}}
	if region.IsNull() {
		return focus.Null(), warn
	}
	return focus.String(region.Str()), warn
}

// DeriveSubChildAccountID composes BillingAccountId with the VDC id
// into a synthetic key stable within the batch.
func DeriveSubChildAccountID(res *Resolution) (focus.Value, []Issue) {
	return composeAccountKey(res.Field(focus.ColBillingAccountID), res.Field(focus.ColSubAccountID))
}

// DeriveSubChildAccountName composes BillingAccountName with the VDC
// name, mirroring DeriveSubChildAccountID.
func DeriveSubChildAccountName(res *Resolution) (focus.Value, []Issue) {
	return composeAccountKey(res.Field(focus.ColBillingAccountName), res.Field(focus.ColSubAccountName))
}

func composeAccountKey(parent, child focus.Value) (focus.Value, []Issue) {
	parts := make([]string, 0, 2)
	if !parent.IsNull() {
		parts = append(parts, parent.Str())
	}
	if !child.IsNull() {
		parts = append(parts, child.Str())
	}
	if len(parts) == 0 {
		return focus.Null(), nil
	}
	return focus.String(strings.Join(parts, "/")), nil
}

// NewCurrencyDerivation builds the derivation behind BillingCurrency
// and PricingCurrency: take the currency captured while coercing the
// listed columns, first capture wins, falling back to the deployment
// default. No resolvable currency is an error; these columns are
// non-nullable downstream.
func NewCurrencyDerivation(capturedFrom ...string) DeriveFunc {
	return func(res *Resolution) (focus.Value, []Issue) {
		for _, col := range capturedFrom {
			if code, ok := res.Currency(col); ok && code != "" {
				return focus.String(code), nil
			}
		}
		if def := res.DefaultCurrency(); def != "" {
			return focus.String(def), nil
		}
		return focus.Null(), []Issue{{
			Severity: SeverityError,
			Code:     CodeDerivationUnavailable,
			Message: fmt.Sprintf("no currency captured from %s and no default configured",
				strings.Join(capturedFrom, ", ")),
		}}
	}
}

// DerivePricingListUnitPrice copies the resolved UnitPrice. If the
// UnitPrice coercion failed there is nothing to synthesize from.
func DerivePricingListUnitPrice(res *Resolution) (focus.Value, []Issue) {
	price := res.Field(focus.ColUnitPrice)
	if price.IsNull() {
		return focus.Null(), []Issue{{
			Severity: SeverityError,
			Code:     CodeDerivationUnavailable,
			Message:  "UnitPrice did not resolve; PricingCurrencyListUnitPrice cannot be derived",
		}}
	}
	return price, nil
}

// NewUnitCopyDerivation copies an already-resolved unit column under
// a new name, flagged pending clarification of the metering unit
// semantics.
func NewUnitCopyDerivation(from, note string) DeriveFunc {
	return func(res *Resolution) (focus.Value, []Issue) {
		warn := []Issue{{
			Severity: SeverityWarning,
			Code:     CodeClarificationPending,
			Message:  note,
		}}
		v := res.Field(from)
		if v.IsNull() {
			return focus.Null(), warn
		}
		return v, warn
	}
}

// NewConstant synthesizes a fixed string value (Provider, Publisher,
// InvoiceIssuer).
func NewConstant(value string) DeriveFunc {
	return func(*Resolution) (focus.Value, []Issue) {
		return focus.String(value), nil
	}
}

// NewNullSynthesis produces a deliberately null field: the source
// feed has no counterpart (ApplicationId, ApplicationName).
func NewNullSynthesis() DeriveFunc {
	return func(*Resolution) (focus.Value, []Issue) {
		return focus.Null(), nil
	}
}
