package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"skucheck/internal/dataprocessing"
	"skucheck/internal/dataset"
	"skucheck/internal/outlier"
	"skucheck/pkg/contracts/domain"
)

// Sheet names of the exported workbook
const (
	SheetData    = "Dados"
	SheetSummary = "Resumo"
	SheetLimits  = "Limites"
)

const (
	colorProblem = "#FFF3CD"
	colorOutlier = "#F8D7DA"
	colorHeader  = "#E9ECEF"
)

var (
	summaryHeaders = []string{"Métrica", "Valor"}
	limitsHeaders  = []string{
		"Categoria", "Registros", "Preços válidos",
		"Corte inferior", "Corte superior", "Limite inferior", "Limite superior",
		"Mediana", "Mediana mínima", "Mediana máxima",
	}
)

// ExcelWriter renders an annotated table as an xlsx workbook
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new workbook writer
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

type workbookStyles struct {
	header  int
	problem int
	outlier int
}

// Write renders res to out
func (x *ExcelWriter) Write(out io.Writer, res *dataprocessing.TableResult) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return fmt.Errorf("failed to rename data sheet: %w", err)
	}
	if err := writeDataSheet(f, res.Table, styles); err != nil {
		return err
	}
	if err := writeSummarySheet(f, res.Summary, styles); err != nil {
		return err
	}
	if err := writeLimitsSheet(f, res.Groups, styles); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	x.logger.Debug("Writing workbook",
		slog.Int("rows", res.Table.Len()),
		slog.Int("groups", len(res.Groups)))

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorHeader}},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	s.problem, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorProblem}},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create problem style: %w", err)
	}
	s.outlier, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorOutlier}},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create outlier style: %w", err)
	}
	return s, nil
}

// highlight returns the fill style for a verdict cell, or 0
func (s workbookStyles) highlight(value string) int {
	switch value {
	case domain.ContentProblem.String():
		return s.problem
	case domain.QuartileOutlier.String(), domain.MedianOutlier.String(), domain.StatusRisk.String():
		return s.outlier
	}
	return 0
}

func writeDataSheet(f *excelize.File, t *dataset.Table, styles workbookStyles) error {
	if err := writeHeader(f, SheetData, t.Headers, styles.header); err != nil {
		return err
	}

	verdictCols := make(map[int]bool)
	for _, name := range dataprocessing.OutputColumns[2:] {
		if i := t.Index(name); i >= 0 {
			verdictCols[i] = true
		}
	}

	for r := range t.Rows {
		row := make([]interface{}, len(t.Headers))
		for c := range row {
			v := t.Value(r, c)
			if n, ok := numericCell(v); ok {
				row[c] = n
			} else {
				row[c] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetData, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}

		for c := range verdictCols {
			style := styles.highlight(t.Value(r, c))
			if style == 0 {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(SheetData, ref, ref, style); err != nil {
				return fmt.Errorf("failed to style %s: %w", ref, err)
			}
		}
	}

	if err := freezeHeader(f, SheetData); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(t.Headers), t.Len()+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(SheetData, "A1:"+last, nil); err != nil {
		return fmt.Errorf("failed to set autofilter: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s domain.SummaryReport, styles workbookStyles) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeHeader(f, SheetSummary, summaryHeaders, styles.header); err != nil {
		return err
	}
	for i, m := range s.Metrics() {
		row := []interface{}{m.Name, m.Value}
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("failed to write metric %q: %w", m.Name, err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "B", 28)
}

func writeLimitsSheet(f *excelize.File, groups []outlier.GroupStats, styles workbookStyles) error {
	if _, err := f.NewSheet(SheetLimits); err != nil {
		return fmt.Errorf("failed to create limits sheet: %w", err)
	}
	if err := writeHeader(f, SheetLimits, limitsHeaders, styles.header); err != nil {
		return err
	}
	for i, g := range groups {
		row := []interface{}{
			g.Group, g.Records, g.ValidPrices,
			g.CutLow, g.CutHigh, g.Lower, g.Upper,
			g.Median, g.MedianLow, g.MedianHigh,
		}
		if err := f.SetSheetRow(SheetLimits, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("failed to write limits for %q: %w", g.Group, err)
		}
	}
	return freezeHeader(f, SheetLimits)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	if len(headers) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func freezeHeader(f *excelize.File, sheet string) error {
	err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("failed to freeze %s header: %w", sheet, err)
	}
	return nil
}
