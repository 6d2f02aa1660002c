package dataprocessing

import "skucheck/pkg/contracts/domain"

// Summarize aggregates annotated records. Outlier counters form a three
// way partition of records flagged by at least one price rule; content
// problems are counted separately.
func Summarize(records []domain.AnnotatedRecord, hasSalesVolume bool) domain.SummaryReport {
	s := domain.SummaryReport{
		TotalRecords:   len(records),
		HasSalesVolume: hasSalesVolume,
	}

	for _, r := range records {
		if !r.Content.IsOK() {
			s.ContentProblems++
		}

		quartile, median := !r.Quartile.IsOK(), !r.Median.IsOK()
		switch {
		case quartile && median:
			s.OutlierBoth++
		case quartile:
			s.OutlierQuartileOnly++
		case median:
			s.OutlierMedianOnly++
		}

		risky := r.Overall == domain.StatusRisk
		if risky {
			s.RecordsAtRisk++
		}

		if hasSalesVolume && r.SalesVolume != nil {
			s.TotalSalesVolume += *r.SalesVolume
			if risky {
				s.SalesVolumeAtRisk += *r.SalesVolume
			}
		}
	}

	s.RiskPercent = percent(float64(s.RecordsAtRisk), float64(s.TotalRecords))
	if hasSalesVolume {
		s.VolumeAtRiskPercent = percent(s.SalesVolumeAtRisk, s.TotalSalesVolume)
	}
	return s
}

func percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
