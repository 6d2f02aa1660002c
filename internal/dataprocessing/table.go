package dataprocessing

import (
	"strconv"

	"skucheck/internal/dataset"
	"skucheck/internal/numeric"
	"skucheck/internal/outlier"
	"skucheck/pkg/contracts/domain"
)

// Headers of the columns appended to the annotated table
const (
	ColumnMatchedQuantity = "QtdEmbalagem"
	ColumnQuantityGrams   = "QtdEmbalagemGramas"
	ColumnContentCheck    = "ValidacaoContenido"
	ColumnQuartileCheck   = "ValidacionPrecio"
	ColumnMedianCheck     = "ValidacionPrecioMediana"
	ColumnOverallStatus   = "StatusGeral"
)

// OutputColumns lists the appended headers in order
var OutputColumns = []string{
	ColumnMatchedQuantity,
	ColumnQuantityGrams,
	ColumnContentCheck,
	ColumnQuartileCheck,
	ColumnMedianCheck,
	ColumnOverallStatus,
}

// TableResult is an annotated copy of an input table
type TableResult struct {
	*Result
	Table   *dataset.Table  `json:"-"`
	Columns dataset.Columns `json:"columns"`
}

// AnnotateTable annotates t using the resolved columns and returns a new
// table with the verdict columns appended. Columns from a previous run are
// replaced rather than duplicated. t itself is not modified.
func AnnotateTable(t *dataset.Table, cols dataset.Columns) (*TableResult, error) {
	return defaultAnnotator.AnnotateTable(t, cols)
}

// AnnotateTable is the table-level entry point of the annotator
func (a *Annotator) AnnotateTable(t *dataset.Table, cols dataset.Columns) (*TableResult, error) {
	if t == nil || t.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	source := t.DropColumns(OutputColumns...)
	records, err := Records(source, cols)
	if err != nil {
		return nil, err
	}

	res, err := a.Annotate(records, cols.HasSalesVolume())
	if err != nil {
		return nil, err
	}

	values := make([][]string, len(res.Records))
	for i, r := range res.Records {
		grams := ""
		if amount := r.Quantity.Amount(); amount != nil {
			grams = strconv.FormatInt(*amount, 10)
		}
		values[i] = []string{
			r.Quantity.MatchedText,
			grams,
			r.Content.String(),
			r.Quartile.String(),
			r.Median.String(),
			r.Overall.String(),
		}
	}

	return &TableResult{
		Result:  res,
		Table:   source.WithColumns(OutputColumns, values),
		Columns: cols,
	}, nil
}

// Records converts table rows into product records. Every resolved column
// must exist in the table.
func Records(t *dataset.Table, cols dataset.Columns) ([]domain.ProductRecord, error) {
	idx := make(map[dataset.Field]int)
	var missing []dataset.Field

	fields := append(append([]dataset.Field(nil), dataset.RequiredFields...), dataset.FieldSalesVolume)
	for _, f := range fields {
		name := cols.Get(f)
		if name == "" && f == dataset.FieldSalesVolume {
			continue
		}
		i := t.Index(name)
		if i < 0 {
			missing = append(missing, f)
			continue
		}
		idx[f] = i
	}
	if len(missing) > 0 {
		return nil, &dataset.MissingColumnsError{Fields: missing}
	}

	records := make([]domain.ProductRecord, t.Len())
	for row := range t.Rows {
		r := domain.ProductRecord{
			Row:             row + 1,
			Description:     t.Value(row, idx[dataset.FieldDescription]),
			DeclaredContent: t.Value(row, idx[dataset.FieldDeclaredContent]),
			CategoryKey:     outlier.GroupKey(t.Value(row, idx[dataset.FieldCategory])),
		}
		if v, ok := numeric.ParseAmount(t.Value(row, idx[dataset.FieldPrice])); ok {
			r.Price = &v
		}
		if col, ok := idx[dataset.FieldSalesVolume]; ok {
			if v, ok := numeric.ParseAmount(t.Value(row, col)); ok {
				r.SalesVolume = &v
			}
		}
		records[row] = r
	}
	return records, nil
}
