package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"skucheck/internal/config"
	"skucheck/internal/dataset"
	"skucheck/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer. Relative file paths are resolved
// against the exports directory of paths; a nil paths leaves them as given.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Encode(file, options)
}

// Encode writes options to out. Headers and the BOM are skipped when
// appending.
func Encode(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix && !options.Append {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTable writes every row of t, padding short rows to the header width
func (w *CSVWriter) WriteTable(out io.Writer, t *dataset.Table) error {
	records := make([][]string, t.Len())
	for r := range t.Rows {
		row := make([]string, len(t.Headers))
		for c := range row {
			row[c] = t.Value(r, c)
		}
		records[r] = row
	}
	return Encode(out, WriteOptions{
		Headers:   t.Headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteSummary writes the two-column metric/value table
func (w *CSVWriter) WriteSummary(out io.Writer, s domain.SummaryReport) error {
	metrics := s.Metrics()
	records := make([][]string, len(metrics))
	for i, m := range metrics {
		records[i] = []string{m.Name, m.Value}
	}
	return Encode(out, WriteOptions{
		Headers:   summaryHeaders,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteSummaryFile writes the summary table to filePath. Relative paths
// land in the exports directory.
func (w *CSVWriter) WriteSummaryFile(filePath string, s domain.SummaryReport) (string, error) {
	metrics := s.Metrics()
	records := make([][]string, len(metrics))
	for i, m := range metrics {
		records[i] = []string{m.Name, m.Value}
	}
	err := w.WriteCSV(filePath, WriteOptions{
		Headers:   summaryHeaders,
		Records:   records,
		BOMPrefix: true,
	})
	return w.resolvePath(filePath), err
}

// resolvePath places relative paths in the exports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return filepath.Join(w.paths.ExportsDir, filePath)
}
