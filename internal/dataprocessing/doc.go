// Package dataprocessing annotates catalog records with content and price
// verdicts and aggregates them into a summary report.
//
// # Pipeline
//
// For every record the annotator:
//
//  1. extracts the packaged quantity from the description (package quantity)
//  2. reconciles it with the declared content (package validation)
//  3. classifies the price against its category (package outlier)
//  4. derives the overall status from the three verdicts
//
// Outlier statistics are computed once over the whole dataset, so a record's
// price labels depend on every other record in its category.
//
// # Usage
//
//	cols, err := dataset.Resolve(table.Headers, cfg.Columns)
//	if err != nil {
//	    return err
//	}
//	res, err := dataprocessing.AnnotateTable(table, cols)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Summary.RecordsAtRisk)
//
// The annotated table keeps every input column and appends the verdict
// columns listed in OutputColumns.
package dataprocessing
