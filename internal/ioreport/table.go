// Package ioreport writes results of an analysis: the ranked table as TSV,
// the run summary as YAML, and heatmap and volcano plots as PNG.
package ioreport

import (
	"encoding/csv"
	"io"

	"github.com/gnames/gnexpr/pkg/dea"
	"github.com/gnames/gnexpr/pkg/pipeline"
	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// WriteTable writes rows as a tab-separated table with a header.
func WriteTable(w io.Writer, rows []dea.Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return TableError(err)
	}
	if err := cw.Error(); err != nil {
		return TableError(err)
	}
	return nil
}

// WriteSummary writes the run summary as YAML.
func WriteSummary(w io.Writer, s *pipeline.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return SummaryError(err)
	}
	if err := enc.Close(); err != nil {
		return SummaryError(err)
	}
	return nil
}
