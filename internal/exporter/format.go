package exporter

import (
	"fmt"
	"strconv"
	"strings"
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Formats lists the supported formats
var Formats = []Format{FormatXLSX, FormatCSV, FormatJSON}

// ParseFormat parses a format name as given on the command line or in a
// query string. The match is case-insensitive and a leading dot is allowed.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/json"
	}
}

func (f Format) String() string { return string(f) }

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// maxNumericDigits keeps long codes such as EANs as text
const maxNumericDigits = 11

// numericCell returns the number a cell holds when its text is the
// canonical rendering of that number.
func numericCell(s string) (float64, bool) {
	if s == "" || len(strings.TrimLeft(s, "-")) > maxNumericDigits+1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if strconv.FormatFloat(v, 'f', -1, 64) != s {
		return 0, false
	}
	return v, true
}
