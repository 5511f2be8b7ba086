// Package hcs models the upstream Huawei Cloud Stack ManageOne
// metering data: the raw source record handed to the mapping engine
// and the SC Northbound Interface client that fetches it.
package hcs

// HCS source column names, as labeled in the ManageOne CDR export.
// These are the keys the mapping rules reference.
const (
	ColTenantName          = "Tenant Name"
	ColTenantID            = "Tenant ID"
	ColVDCName             = "VDC Name"
	ColVDCID               = "VDC ID"
	ColUpperVDCID          = "Upper VDC ID"
	ColRegion              = "Region"
	ColAZCode              = "AZ Code"
	ColResourceSpaceName   = "Resource Space Name"
	ColResourceType        = "Resource Type"
	ColResourceName        = "Resource Name"
	ColResourceID          = "Resource ID"
	ColEnterpriseProjectID = "Enterprise Project ID"
	ColTag                 = "Tag"
	ColMeteringStarted     = "Metering Started (UTC+01:00)"
	ColMeteringEnded       = "Metering Ended (UTC+01:00)"
	ColMeteringMetric      = "Metering Metric"
	ColMeteringValue       = "Metering Value"
	ColMeteringUnitName    = "Metering Unit Name"
	ColUnit                = "Unit"
	ColUsage               = "Usage"
	ColUnitPrice           = "Unit Price"
	ColUnitPriceUnit       = "Unit Price Unit"
	ColFee                 = "Fee"
)

// SourceRecord is one raw metering line item: an ordered mapping from
// HCS column name to the raw value as received. Records are built
// once by the client (or a file loader) and read-only afterwards.
type SourceRecord struct {
	columns []string
	values  map[string]string
}

// NewSourceRecord returns an empty source record.
func NewSourceRecord() *SourceRecord {
	return &SourceRecord{values: make(map[string]string)}
}

// Set adds or replaces a column value, preserving first-seen order.
func (r *SourceRecord) Set(column, value string) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the raw value of a column and whether it is present.
func (r *SourceRecord) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the column order. Callers must not mutate it.
func (r *SourceRecord) Columns() []string { return r.columns }

// Clone returns an independent copy. MergeContext clones the context
// prefix for every line item rather than rebuilding it.
func (r *SourceRecord) Clone() *SourceRecord {
	c := &SourceRecord{
		columns: make([]string, len(r.columns)),
		values:  make(map[string]string, len(r.values)),
	}
	copy(c.columns, r.columns)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// AccountContext is the tenant/VDC identity a transform request
// supplies; the CDR feed itself does not carry tenant names.
type AccountContext struct {
	TenantName string
	TenantID   string
	VDCName    string
	VDCID      string
}

// MergeContext prefixes each record with the account context columns.
// Values already present on a fetched record win (VDC ID in
// particular arrives on the CDR line). Input records are not touched.
func MergeContext(records []*SourceRecord, ctx AccountContext) []*SourceRecord {
	base := NewSourceRecord()
	base.Set(ColTenantName, ctx.TenantName)
	base.Set(ColTenantID, ctx.TenantID)
	base.Set(ColVDCName, ctx.VDCName)
	base.Set(ColVDCID, ctx.VDCID)

	merged := make([]*SourceRecord, len(records))
	for i, src := range records {
		rec := base.Clone()
		for _, col := range src.Columns() {
			v, _ := src.Get(col)
			if v != "" || !has(rec, col) {
				rec.Set(col, v)
			}
		}
		merged[i] = rec
	}
	return merged
}

func has(r *SourceRecord, col string) bool {
	_, ok := r.values[col]
	return ok
}
