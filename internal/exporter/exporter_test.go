package exporter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skucheck/internal/dataprocessing"
	"skucheck/internal/dataset"
)

var testColumns = dataset.Columns{
	Description:     "Descricao",
	DeclaredContent: "Conteudo",
	Price:           "Preco",
	Category:        "Categoria",
}

// annotatedFixture has one content problem (row 3) and one extreme price
// (row 12) in a single category.
func annotatedFixture(t *testing.T) *dataprocessing.TableResult {
	t.Helper()

	table := &dataset.Table{
		Name:    "catalogo.xlsx",
		Headers: []string{"EAN", "Descricao", "Conteudo", "Preco", "Categoria"},
	}
	for i := 0; i < 10; i++ {
		table.Rows = append(table.Rows, []string{"7891000100103", "CAIXA 12X1KG", "12000", "10", "A"})
	}
	table.Rows[2][2] = "6000"
	table.Rows = append(table.Rows,
		[]string{"7891000100104", "CAIXA 12X1KG", "12000", "10", "A"},
		[]string{"7891000100105", "CAIXA 12X1KG", "12000", "1000", "A"},
	)

	res, err := dataprocessing.AnnotateTable(table, testColumns)
	require.NoError(t, err)
	return res
}
