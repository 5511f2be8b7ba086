package hcs

import "context"

//go:generate mockgen -source=fetcher.go -destination=mocks/metrics_fetcher.go -package=mock_hcs

// MetricsFetcher abstracts the upstream metering fetch so the HTTP
// layer can be tested without an SC endpoint.
type MetricsFetcher interface {
	FetchMetrics(ctx context.Context, params QueryParams) ([]*SourceRecord, error)
}
