package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// candidateDelimiters are tried when sniffing CSV input
var candidateDelimiters = []rune{',', ';', '\t', '|'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads a catalog table from disk
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path))
}

// Read reads a catalog table. The format is chosen from the extension of
// name: .xlsx/.xlsm through excelize, .csv/.txt as delimited text.
func Read(r io.Reader, name string) (*Table, error) {
	var (
		t   *Table
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		t, err = readExcel(r)
	case ".csv", ".txt":
		t, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	t.Name = name
	slog.Debug("Table loaded",
		slog.String("name", name),
		slog.Int("columns", len(t.Headers)),
		slog.Int("rows", len(t.Rows)))
	return t, nil
}

// readExcel loads the first sheet that holds any data. The first non-blank
// row is the header.
func readExcel(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		t, ok := fromRows(rows)
		if ok {
			slog.Debug("Using sheet", slog.String("sheet", sheet))
			return t, nil
		}
	}

	return nil, ErrEmptyDataset
}

// readCSV loads delimited text, sniffing the delimiter from the header line
func readCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	t, ok := fromRows(rows)
	if !ok {
		return nil, ErrEmptyDataset
	}
	return t, nil
}

// sniffDelimiter picks the candidate that occurs most often on the first
// non-empty line, ignoring quoted sections.
func sniffDelimiter(data []byte) rune {
	line := ""
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	counts := make(map[rune]int)
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// fromRows turns raw rows into a table, skipping leading and interior
// blank rows.
func fromRows(rows [][]string) (*Table, bool) {
	start := -1
	for i, r := range rows {
		if !isBlankRow(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	t := &Table{Headers: normalizeHeaders(rows[start])}
	if len(t.Headers) == 0 {
		return nil, false
	}
	for _, r := range rows[start+1:] {
		if isBlankRow(r) {
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	return t, true
}
