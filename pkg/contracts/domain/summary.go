package domain

import "fmt"

// SummaryReport aggregates the labels of a whole run.
// The three outlier counters partition outlier records and are independent
// of content problems.
type SummaryReport struct {
	TotalRecords        int     `json:"total_records"`
	ContentProblems     int     `json:"content_problems"`
	OutlierQuartileOnly int     `json:"outlier_quartile_only"`
	OutlierMedianOnly   int     `json:"outlier_median_only"`
	OutlierBoth         int     `json:"outlier_both"`
	RecordsAtRisk       int     `json:"records_at_risk"`
	RiskPercent         float64 `json:"risk_percent"`
	HasSalesVolume      bool    `json:"has_sales_volume"`
	TotalSalesVolume    float64 `json:"total_sales_volume"`
	SalesVolumeAtRisk   float64 `json:"sales_volume_at_risk"`
	VolumeAtRiskPercent float64 `json:"volume_at_risk_percent"`
}

// Metric is one line of the two-column summary table
type Metric struct {
	Name  string `json:"metric"`
	Value string `json:"value"`
}

// Metrics renders the report as metric/value rows in display order
func (s SummaryReport) Metrics() []Metric {
	metrics := []Metric{
		{Name: "Total de SKUs", Value: fmt.Sprintf("%d", s.TotalRecords)},
		{Name: "Problemas de conteúdo", Value: fmt.Sprintf("%d", s.ContentProblems)},
		{Name: "Outliers só quartil", Value: fmt.Sprintf("%d", s.OutlierQuartileOnly)},
		{Name: "Outliers só mediana", Value: fmt.Sprintf("%d", s.OutlierMedianOnly)},
		{Name: "Outliers quartil e mediana", Value: fmt.Sprintf("%d", s.OutlierBoth)},
		{Name: "SKUs com problema", Value: fmt.Sprintf("%d", s.RecordsAtRisk)},
		{Name: "% SKUs com problema", Value: fmt.Sprintf("%.2f%%", s.RiskPercent)},
	}
	if s.HasSalesVolume {
		metrics = append(metrics,
			Metric{Name: "Volume total", Value: fmt.Sprintf("%.2f", s.TotalSalesVolume)},
			Metric{Name: "Volume em risco", Value: fmt.Sprintf("%.2f", s.SalesVolumeAtRisk)},
			Metric{Name: "% volume em risco", Value: fmt.Sprintf("%.2f%%", s.VolumeAtRiskPercent)},
		)
	}
	return metrics
}
