package export

import "errors"

// ErrNoHeaders is returned when a dataset has no columns to render.
var ErrNoHeaders = errors.New("dataset requires at least one header")

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Validate reports whether the dataset can be rendered.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return ErrNoHeaders
	}
	return nil
}

// Records flattens Rows into header order. Missing cells become empty strings.
func (d Dataset) Records() [][]string {
	out := make([][]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		rec := make([]string, len(d.Headers))
		for i, header := range d.Headers {
			rec[i] = row[header]
		}
		out = append(out, rec)
	}
	return out
}
