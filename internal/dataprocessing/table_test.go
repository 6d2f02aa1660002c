package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skucheck/internal/dataset"
	"skucheck/pkg/contracts/domain"
)

var catalogColumns = dataset.Columns{
	Description:     "Descricao",
	DeclaredContent: "Conteudo",
	Price:           "Preco",
	Category:        "Categoria",
}

func catalogTable() *dataset.Table {
	return &dataset.Table{
		Name:    "catalogo.xlsx",
		Headers: []string{"SKU", "Descricao", "Conteudo", "Preco", "Categoria"},
		Rows: [][]string{
			{"1", "LEITE 1L", "1000", "4,50", " LATICINIOS "},
			{"2", "LEITE 1L", "1000", "4,60", "LATICINIOS"},
			{"3", "IOGURTE 6X170G", "1020", "R$ 9,90", "LATICINIOS"},
			{"4", "QUEIJO", "500", "", "LATICINIOS"},
		},
	}
}

func TestAnnotateTable(t *testing.T) {
	in := catalogTable()
	res, err := AnnotateTable(in, catalogColumns)
	require.NoError(t, err)

	out := res.Table
	assert.Equal(t, append(append([]string{}, in.Headers...), OutputColumns...), out.Headers)
	require.Equal(t, 4, out.Len())

	assert.Equal(t, "1L", out.Value(0, out.Index(ColumnMatchedQuantity)))
	assert.Equal(t, "1000", out.Value(0, out.Index(ColumnQuantityGrams)))
	assert.Equal(t, "OK", out.Value(0, out.Index(ColumnContentCheck)))
	assert.Equal(t, "1020", out.Value(2, out.Index(ColumnQuantityGrams)))

	// missing price
	assert.Equal(t, "OUTLIER", out.Value(3, out.Index(ColumnQuartileCheck)))
	assert.Equal(t, "OUTLIER_MEDIANA", out.Value(3, out.Index(ColumnMedianCheck)))
	assert.Equal(t, "RISCO", out.Value(3, out.Index(ColumnOverallStatus)))

	// trimmed categories share a group
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "LATICINIOS", res.Groups[0].Group)
	assert.Equal(t, 3, res.Groups[0].ValidPrices)

	require.NotNil(t, res.Records[2].Price)
	assert.InDelta(t, 9.90, *res.Records[2].Price, 1e-9)

	// input untouched
	assert.Len(t, in.Headers, 5)
	assert.Len(t, in.Rows[0], 5)
}

func TestAnnotateTable_ReplacesPreviousAnnotations(t *testing.T) {
	first, err := AnnotateTable(catalogTable(), catalogColumns)
	require.NoError(t, err)

	second, err := AnnotateTable(first.Table, catalogColumns)
	require.NoError(t, err)
	assert.Equal(t, first.Table.Headers, second.Table.Headers)
	assert.Equal(t, first.Table.Rows, second.Table.Rows)
}

func TestAnnotateTable_SalesVolume(t *testing.T) {
	in := catalogTable()
	in.Headers = append(in.Headers, "Vendas")
	sales := []string{"10", "20", "30", "40"}
	for i := range in.Rows {
		in.Rows[i] = append(in.Rows[i], sales[i])
	}
	cols := catalogColumns
	cols.SalesVolume = "Vendas"

	res, err := AnnotateTable(in, cols)
	require.NoError(t, err)
	assert.True(t, res.Summary.HasSalesVolume)
	assert.InDelta(t, 100.0, res.Summary.TotalSalesVolume, 1e-9)
	assert.GreaterOrEqual(t, res.Summary.SalesVolumeAtRisk, 40.0)
}

func TestAnnotateTable_Errors(t *testing.T) {
	_, err := AnnotateTable(&dataset.Table{Headers: []string{"Descricao"}}, catalogColumns)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = AnnotateTable(nil, catalogColumns)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	cols := catalogColumns
	cols.Price = "Valor"
	_, err = AnnotateTable(catalogTable(), cols)
	var missing *dataset.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []dataset.Field{dataset.FieldPrice}, missing.Fields)
}

func TestRecords(t *testing.T) {
	records, err := Records(catalogTable(), catalogColumns)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, 1, records[0].Row)
	assert.Equal(t, "LATICINIOS", records[0].CategoryKey)
	assert.Nil(t, records[3].Price)
	assert.Nil(t, records[0].SalesVolume)
	assert.IsType(t, domain.ProductRecord{}, records[0])
}
