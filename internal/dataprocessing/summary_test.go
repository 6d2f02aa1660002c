package dataprocessing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skucheck/pkg/contracts/domain"
)

func annotated(c domain.ContentVerdict, q domain.QuartileVerdict, m domain.MedianVerdict, sales *float64) domain.AnnotatedRecord {
	return domain.AnnotatedRecord{
		ProductRecord: domain.ProductRecord{SalesVolume: sales},
		Content:       c,
		Quartile:      q,
		Median:        m,
		Overall:       domain.OverallFor(c, q, m),
	}
}

func TestSummarize(t *testing.T) {
	records := []domain.AnnotatedRecord{
		annotated(domain.ContentOK, domain.QuartileOK, domain.MedianOK, price(100)),
		annotated(domain.ContentProblem, domain.QuartileOK, domain.MedianOK, price(50)),
		annotated(domain.ContentOK, domain.QuartileOutlier, domain.MedianOK, price(25)),
		annotated(domain.ContentOK, domain.QuartileOK, domain.MedianOutlier, nil),
		annotated(domain.ContentProblem, domain.QuartileOutlier, domain.MedianOutlier, price(25)),
	}

	s := Summarize(records, true)

	assert.Equal(t, 5, s.TotalRecords)
	assert.Equal(t, 2, s.ContentProblems)
	assert.Equal(t, 1, s.OutlierQuartileOnly)
	assert.Equal(t, 1, s.OutlierMedianOnly)
	assert.Equal(t, 1, s.OutlierBoth)
	assert.Equal(t, 4, s.RecordsAtRisk)
	assert.InDelta(t, 80.0, s.RiskPercent, 1e-9)

	assert.True(t, s.HasSalesVolume)
	assert.InDelta(t, 200.0, s.TotalSalesVolume, 1e-9)
	assert.InDelta(t, 100.0, s.SalesVolumeAtRisk, 1e-9)
	assert.InDelta(t, 50.0, s.VolumeAtRiskPercent, 1e-9)
}

func TestSummarize_Consistency(t *testing.T) {
	res, err := Annotate(crateRecords(), false)
	if !assert.NoError(t, err) {
		return
	}
	s := res.Summary

	flagged := 0
	for _, r := range res.Records {
		if !r.Quartile.IsOK() || !r.Median.IsOK() {
			flagged++
		}
	}
	assert.Equal(t, flagged, s.OutlierQuartileOnly+s.OutlierMedianOnly+s.OutlierBoth)
	assert.LessOrEqual(t, s.RecordsAtRisk, s.TotalRecords)
	assert.GreaterOrEqual(t, s.RecordsAtRisk, s.ContentProblems)
	assert.GreaterOrEqual(t, s.RecordsAtRisk, flagged)
}

func TestSummarize_ZeroDenominators(t *testing.T) {
	s := Summarize(nil, true)
	assert.Zero(t, s.RiskPercent)
	assert.Zero(t, s.VolumeAtRiskPercent)

	records := []domain.AnnotatedRecord{
		annotated(domain.ContentProblem, domain.QuartileOK, domain.MedianOK, nil),
	}
	s = Summarize(records, true)
	assert.Equal(t, 100.0, s.RiskPercent)
	assert.Zero(t, s.TotalSalesVolume)
	assert.Zero(t, s.VolumeAtRiskPercent)
}

func TestSummarize_WithoutSalesIgnoresVolume(t *testing.T) {
	records := []domain.AnnotatedRecord{
		annotated(domain.ContentProblem, domain.QuartileOK, domain.MedianOK, price(10)),
	}
	s := Summarize(records, false)
	assert.False(t, s.HasSalesVolume)
	assert.Zero(t, s.TotalSalesVolume)
	assert.Len(t, s.Metrics(), 7)
}

func TestSummarize_JSONKeepsZeroVolume(t *testing.T) {
	records := []domain.AnnotatedRecord{
		annotated(domain.ContentOK, domain.QuartileOK, domain.MedianOK, nil),
	}
	data, err := json.Marshal(Summarize(records, true))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, true, body["has_sales_volume"])
	for _, key := range []string{"total_sales_volume", "sales_volume_at_risk", "volume_at_risk_percent"} {
		v, ok := body[key]
		require.True(t, ok, key)
		assert.Equal(t, 0.0, v, key)
	}
}
