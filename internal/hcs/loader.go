package hcs

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// DecodeMetrics reads a query-metrics-data envelope and converts the
// entries into SourceRecords, for offline transforms of exported
// responses.
func DecodeMetrics(r io.Reader) ([]*SourceRecord, error) {
	var envelope metricsEnvelope
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("hcs: decode metrics envelope: %w", err)
	}
	records := make([]*SourceRecord, 0, len(envelope.Metrics))
	for _, m := range envelope.Metrics {
		records = append(records, m.toSourceRecord())
	}
	return records, nil
}

// LoadMetricsFile decodes a metrics envelope from a JSON file.
func LoadMetricsFile(path string) ([]*SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hcs: open metrics file: %w", err)
	}
	defer f.Close()
	return DecodeMetrics(f)
}
