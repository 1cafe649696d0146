package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVContentType is the media type of CSVExporter output.
const CSVContentType = "text/csv"

// CSVExporter renders a Dataset as a header line followed by one line per row.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := csv.NewWriter(buf).WriteAll(append([][]string{data.Headers}, data.Records()...)); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
