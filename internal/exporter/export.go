package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"skucheck/internal/dataprocessing"
)

// Export writes res to out in the given format
func Export(out io.Writer, format Format, res *dataprocessing.TableResult) error {
	switch format {
	case FormatXLSX:
		return NewExcelWriter(nil).Write(out, res)
	case FormatCSV:
		return NewCSVWriter(nil).WriteTable(out, res.Table)
	case FormatJSON:
		return WriteJSON(out, res)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// ExportFile writes res to path, creating parent directories as needed
func ExportFile(path string, format Format, res *dataprocessing.TableResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Export(file, format, res); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	slog.Info("Export written",
		slog.String("path", path),
		slog.String("format", format.String()),
		slog.Int("rows", res.Table.Len()))
	return nil
}
