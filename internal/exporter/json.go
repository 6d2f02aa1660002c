package exporter

import (
	"encoding/json"
	"io"

	"skucheck/internal/dataprocessing"
	"skucheck/internal/dataset"
	"skucheck/internal/outlier"
	"skucheck/pkg/contracts/domain"
)

// Report is the JSON export document
type Report struct {
	Summary domain.SummaryReport     `json:"summary"`
	Metrics []domain.Metric          `json:"metrics"`
	Columns dataset.Columns          `json:"columns"`
	Groups  []outlier.GroupStats     `json:"groups"`
	Records []domain.AnnotatedRecord `json:"records"`
}

// NewReport builds the JSON document for res
func NewReport(res *dataprocessing.TableResult) Report {
	return Report{
		Summary: res.Summary,
		Metrics: res.Summary.Metrics(),
		Columns: res.Columns,
		Groups:  res.Groups,
		Records: res.Records,
	}
}

// WriteJSON encodes the report for res as indented JSON
func WriteJSON(out io.Writer, res *dataprocessing.TableResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(res))
}
