package hcs_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcs-focus/internal/hcs"
)

const metricsResponse = `{
	"metrics": [
		{
			"id": "m-1",
			"region_code": "lagos-mtn-1",
			"az_code": "az5.dc5",
			"resource_type_code": "hws.resource.type.volume",
			"resource_id": "res-7f3a",
			"resource_display_name": "data-volume-7",
			"start_time": "2024-01-15 10:00:00",
			"end_time": "2024-01-15 11:00:00",
			"tag": "env=prod",
			"upper_vdc_id": "vdc-001",
			"vdc_id": "vdc-042",
			"enterprise_project_id": "ep-9",
			"meter_unit_name": "GB-hour",
			"accumulate_mode": "DURATION",
			"price": "2.5",
			"price_unit": "GB",
			"usage_value": 3
		}
	],
	"total": 1
}`

func TestFetchMetrics(t *testing.T) {
	var gotPath, gotToken, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Auth-Token")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(metricsResponse))
	}))
	defer srv.Close()

	client := hcs.NewClient(srv.URL, "token-123", 5*time.Second, nil)
	records, err := client.FetchMetrics(context.Background(), hcs.QueryParams{
		RegionCode: "lagos-mtn-1",
		DomainID:   "dom-1",
		StartTime:  "2024-01-15 00:00:00",
		EndTime:    "2024-01-16 00:00:00",
		Period:     "daily",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "/rest/metering/v3.0/query-metrics-data", gotPath)
	assert.Equal(t, "token-123", gotToken)
	assert.Contains(t, gotBody, `"region_code":"lagos-mtn-1"`)

	rec := records[0]
	wantColumns := map[string]string{
		hcs.ColRegion:              "lagos-mtn-1",
		hcs.ColAZCode:              "az5.dc5",
		hcs.ColVDCID:               "vdc-042",
		hcs.ColUpperVDCID:          "vdc-001",
		hcs.ColResourceType:        "hws.resource.type.volume",
		hcs.ColResourceName:        "data-volume-7",
		hcs.ColResourceID:          "res-7f3a",
		hcs.ColEnterpriseProjectID: "ep-9",
		hcs.ColTag:                 "env=prod",
		hcs.ColMeteringStarted:     "2024-01-15 10:00:00",
		hcs.ColMeteringEnded:       "2024-01-15 11:00:00",
		hcs.ColMeteringMetric:      "DURATION",
		hcs.ColMeteringValue:       "3",
		hcs.ColMeteringUnitName:    "GB-hour",
		hcs.ColUnit:                "GB",
		hcs.ColUsage:               "3",
		hcs.ColUnitPrice:           "2.5",
		hcs.ColUnitPriceUnit:       "GB",
		hcs.ColFee:                 "7.5",
	}
	for col, want := range wantColumns {
		got, ok := rec.Get(col)
		require.True(t, ok, "column %s missing", col)
		assert.Equal(t, want, got, "column %s", col)
	}
}

func TestFetchMetricsUpstreamFailures(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := hcs.NewClient(srv.URL, "", 5*time.Second, nil)
		_, err := client.FetchMetrics(context.Background(), hcs.QueryParams{RegionCode: "r1"})

		var upstream *hcs.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusBadGateway, upstream.Status)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := hcs.NewClient(srv.URL, "", 5*time.Second, nil)
		_, err := client.FetchMetrics(context.Background(), hcs.QueryParams{RegionCode: "r1"})

		var upstream *hcs.UpstreamError
		require.ErrorAs(t, err, &upstream)
	})

	t.Run("connection refused", func(t *testing.T) {
		client := hcs.NewClient("http://127.0.0.1:1", "", time.Second, nil)
		_, err := client.FetchMetrics(context.Background(), hcs.QueryParams{RegionCode: "r1"})

		var upstream *hcs.UpstreamError
		require.True(t, errors.As(err, &upstream))
	})
}

func TestFetchMetricsNonNumericPriceYieldsEmptyFee(t *testing.T) {
	body := strings.Replace(metricsResponse, `"price": "2.5"`, `"price": "N/A"`, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := hcs.NewClient(srv.URL, "", 5*time.Second, nil)
	records, err := client.FetchMetrics(context.Background(), hcs.QueryParams{RegionCode: "r1"})
	require.NoError(t, err)
	require.Len(t, records, 1)

	fee, ok := records[0].Get(hcs.ColFee)
	require.True(t, ok)
	assert.Equal(t, "", fee)
}
