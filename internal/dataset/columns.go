package dataset

import (
	"fmt"
	"strings"

	"skucheck/internal/config"
)

// Field is a logical catalog column
type Field string

const (
	FieldDescription     Field = "description"
	FieldDeclaredContent Field = "declared_content"
	FieldPrice           Field = "price"
	FieldCategory        Field = "category"
	FieldSalesVolume     Field = "sales_volume"
)

// RequiredFields must all resolve for a run to start
var RequiredFields = []Field{FieldDescription, FieldDeclaredContent, FieldPrice, FieldCategory}

// Columns holds the resolved header name of each logical field. An
// optional field that was not found is "".
type Columns struct {
	Description     string `json:"description"`
	DeclaredContent string `json:"declared_content"`
	Price           string `json:"price"`
	Category        string `json:"category"`
	SalesVolume     string `json:"sales_volume,omitempty"`
}

// HasSalesVolume reports whether the optional sales column was found
func (c Columns) HasSalesVolume() bool {
	return c.SalesVolume != ""
}

// Get returns the header resolved for field
func (c Columns) Get(field Field) string {
	switch field {
	case FieldDescription:
		return c.Description
	case FieldDeclaredContent:
		return c.DeclaredContent
	case FieldPrice:
		return c.Price
	case FieldCategory:
		return c.Category
	case FieldSalesVolume:
		return c.SalesVolume
	}
	return ""
}

// MissingColumnsError lists every required field that no header matched
type MissingColumnsError struct {
	Fields []Field
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("required columns not found: %s", strings.Join(names, ", "))
}

// FieldNames returns the missing fields as strings
func (e *MissingColumnsError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return names
}

// FindColumn returns the first header containing an alias, trying aliases
// in order. Matching is case-insensitive.
func FindColumn(headers []string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		needle := strings.ToLower(strings.TrimSpace(alias))
		if needle == "" {
			continue
		}
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), needle) {
				return h, true
			}
		}
	}
	return "", false
}

// Resolve maps every logical field to a header. All missing required
// fields are reported together in a *MissingColumnsError.
func Resolve(headers []string, aliases config.ColumnAliases) (Columns, error) {
	var (
		cols    Columns
		missing []Field
	)

	lookup := func(field Field, list []string, required bool) string {
		h, ok := FindColumn(headers, list)
		if !ok && required {
			missing = append(missing, field)
		}
		return h
	}

	cols.Description = lookup(FieldDescription, aliases.Description, true)
	cols.DeclaredContent = lookup(FieldDeclaredContent, aliases.DeclaredContent, true)
	cols.Price = lookup(FieldPrice, aliases.Price, true)
	cols.Category = lookup(FieldCategory, aliases.Category, true)
	cols.SalesVolume = lookup(FieldSalesVolume, aliases.SalesVolume, false)

	if len(missing) > 0 {
		return Columns{}, &MissingColumnsError{Fields: missing}
	}
	return cols, nil
}
