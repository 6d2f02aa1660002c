// Package exporter writes annotated catalogs in the formats offered to
// users.
//
// ExcelWriter produces the reviewer workbook: the annotated rows with
// verdict highlighting, a summary sheet and the per-category price limits.
// CSVWriter writes UTF-8 CSV with a BOM so Excel detects the encoding.
// WriteJSON emits the machine-readable form used by the API.
//
// Example usage:
//
//	res, err := dataprocessing.AnnotateTable(table, cols)
//	if err != nil {
//	    return err
//	}
//	err = exporter.ExportFile("out/catalogo_processado.xlsx", exporter.FormatXLSX, res)
package exporter
