package hcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const metricsEndpoint = "/rest/metering/v3.0/query-metrics-data"

// QueryParams are the SC Northbound metrics query parameters.
type QueryParams struct {
	RegionCode       string `json:"region_code"`
	DomainID         string `json:"domain_id"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Period           string `json:"period,omitempty"`
	TimeZone         string `json:"time_zone,omitempty"`
	Locale           string `json:"locale,omitempty"`
	ResourceTypeCode string `json:"resource_type_code,omitempty"`
	Limit            int    `json:"limit,omitempty"`
}

// UpstreamError is a transport or protocol failure talking to the SC
// API. The HTTP layer maps it to a 502.
type UpstreamError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("hcs: %s returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("hcs: request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// metricRecord mirrors one entry of the query-metrics-data response.
type metricRecord struct {
	ID                  string  `json:"id"`
	RegionCode          string  `json:"region_code"`
	AZCode              string  `json:"az_code"`
	ResourceTypeCode    string  `json:"resource_type_code"`
	ResourceID          string  `json:"resource_id"`
	ResourceDisplayName string  `json:"resource_display_name"`
	StartTime           string  `json:"start_time"`
	EndTime             string  `json:"end_time"`
	Tag                 string  `json:"tag"`
	UpperVDCID          string  `json:"upper_vdc_id"`
	VDCID               string  `json:"vdc_id"`
	EnterpriseProjectID string  `json:"enterprise_project_id"`
	MeterUnitName       string  `json:"meter_unit_name"`
	AccumulateMode      string  `json:"accumulate_mode"`
	Price               string  `json:"price"`
	PriceUnit           string  `json:"price_unit"`
	UsageValue          float64 `json:"usage_value"`
}

// metricsEnvelope is the response wrapper of query-metrics-data.
type metricsEnvelope struct {
	Metrics []metricRecord `json:"metrics"`
	Total   int            `json:"total"`
	Marker  string         `json:"marker"`
}

// Client fetches metering data from the SC Northbound Interface.
// Token issuance and refresh happen outside this client; it only
// attaches the token it was given.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a metrics client for the given SC endpoint.
func NewClient(baseURL, token string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// FetchMetrics queries one page of metering records and converts them
// into SourceRecords keyed by the CDR column vocabulary.
func (c *Client) FetchMetrics(ctx context.Context, params QueryParams) ([]*SourceRecord, error) {
	url := c.baseURL + metricsEndpoint

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("hcs: encode query params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("hcs: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Endpoint: metricsEndpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{Endpoint: metricsEndpoint, Status: resp.StatusCode}
	}

	var envelope metricsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &UpstreamError{Endpoint: metricsEndpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	records := make([]*SourceRecord, 0, len(envelope.Metrics))
	for _, m := range envelope.Metrics {
		records = append(records, m.toSourceRecord())
	}

	c.log.Info("fetched HCS metrics",
		"region", params.RegionCode,
		"count", len(records),
		"total", envelope.Total,
	)
	return records, nil
}

// toSourceRecord maps the API field names onto the CDR column
// vocabulary the rule registry references. The Fee column is the
// price/usage product, matching what the CDR sheet exports.
func (m metricRecord) toSourceRecord() *SourceRecord {
	rec := NewSourceRecord()
	rec.Set(ColRegion, m.RegionCode)
	rec.Set(ColAZCode, m.AZCode)
	rec.Set(ColVDCID, m.VDCID)
	rec.Set(ColUpperVDCID, m.UpperVDCID)
	rec.Set(ColResourceType, m.ResourceTypeCode)
	rec.Set(ColResourceName, m.ResourceDisplayName)
	rec.Set(ColResourceID, m.ResourceID)
	rec.Set(ColEnterpriseProjectID, m.EnterpriseProjectID)
	rec.Set(ColTag, m.Tag)
	rec.Set(ColMeteringStarted, m.StartTime)
	rec.Set(ColMeteringEnded, m.EndTime)
	rec.Set(ColMeteringMetric, m.AccumulateMode)
	rec.Set(ColMeteringValue, formatFloat(m.UsageValue))
	rec.Set(ColMeteringUnitName, m.MeterUnitName)
	rec.Set(ColUnit, m.PriceUnit)
	rec.Set(ColUsage, formatFloat(m.UsageValue))
	rec.Set(ColUnitPrice, m.Price)
	rec.Set(ColUnitPriceUnit, m.PriceUnit)
	rec.Set(ColFee, m.fee())
	return rec
}

// fee computes UnitPrice * UsageValue with decimal arithmetic. A
// non-numeric price yields an empty Fee, which the mapper reports.
func (m metricRecord) fee() string {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return ""
	}
	usage := decimal.NewFromFloat(m.UsageValue)
	return price.Mul(usage).Round(6).String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
