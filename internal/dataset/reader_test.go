package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any, order []string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "catalogo.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadExcel(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Vazia": {},
		"Dados": {
			{" Descripcion ", "Contenido", "Precio KG/LT", "NIVEL1"},
			{"CAIXA 12X1KG", 12000, 10.5, "A"},
			{},
			{"ARROZ 500G", "500", "8,90", "B"},
		},
	}, []string{"Vazia", "Dados"})

	tbl, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "catalogo.xlsx", tbl.Name)
	assert.Equal(t, []string{"Descripcion", "Contenido", "Precio KG/LT", "NIVEL1"}, tbl.Headers)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "CAIXA 12X1KG", tbl.Value(0, 0))
	assert.Equal(t, "12000", tbl.Value(0, 1))
	assert.Equal(t, "10.5", tbl.Value(0, 2))
	assert.Equal(t, "8,90", tbl.Value(1, 2))
}

func TestReadExcelWithoutData(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{"Sheet1": {}}, []string{"Sheet1"})

	_, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		headers []string
		rows    [][]string
	}{
		{
			name:    "semicolon with bom",
			content: "\xEF\xBB\xBFNome SKU;Qtd Conteúdo SKU;Preço kg/lt\nLEITE 1L;1000;\"4,50\"\n",
			headers: []string{"Nome SKU", "Qtd Conteúdo SKU", "Preço kg/lt"},
			rows:    [][]string{{"LEITE 1L", "1000", "4,50"}},
		},
		{
			name:    "comma with quoted commas",
			content: "a,b,c\n\"x, y\",2,3\n\n4,5,6\n",
			headers: []string{"a", "b", "c"},
			rows:    [][]string{{"x, y", "2", "3"}, {"4", "5", "6"}},
		},
		{
			name:    "tab separated",
			content: "a\tb\n1\t2\n",
			headers: []string{"a", "b"},
			rows:    [][]string{{"1", "2"}},
		},
		{
			name:    "ragged rows",
			content: "a;b;c\n1;2\n",
			headers: []string{"a", "b", "c"},
			rows:    [][]string{{"1", "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(tt.content), "in.csv")
			require.NoError(t, err)
			assert.Equal(t, tt.headers, tbl.Headers)
			assert.Equal(t, tt.rows, tbl.Rows)
		})
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("x"), "in.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Read(strings.NewReader("\n\n"), "in.csv")
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = Read(bytes.NewReader([]byte("not a zip")), "in.xlsx")
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c\n1,5;2;3")))
	assert.Equal(t, ',', sniffDelimiter([]byte("\"a;b\",c\n")))
	assert.Equal(t, '|', sniffDelimiter([]byte("a|b|c")))
	assert.Equal(t, ',', sniffDelimiter([]byte("single")))
}
