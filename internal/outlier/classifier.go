// Package outlier flags prices that are out of line with the rest of their
// category.
//
// Two independent rules are applied per category group. The quantile band
// rule flags values outside adaptive percentile cut points. The median ratio
// rule flags values more than three times above or below the group median.
package outlier

import (
	"sort"
	"strings"

	"skucheck/pkg/contracts/domain"
)

// MedianFactor bounds the median ratio band to [m/MedianFactor, m*MedianFactor]
const MedianFactor = 3.0

// Observation is one priced record and the category it belongs to.
// A nil Value means the price was missing or could not be parsed.
type Observation struct {
	Group string
	Value *float64
}

// Labels are the two verdicts of one observation
type Labels struct {
	Quartile domain.QuartileVerdict `json:"quartile"`
	Median   domain.MedianVerdict   `json:"median"`
}

// GroupStats holds the thresholds computed for one category
type GroupStats struct {
	Group       string  `json:"group"`
	Records     int     `json:"records"`
	ValidPrices int     `json:"valid_prices"`
	CutLow      float64 `json:"cut_low"`
	CutHigh     float64 `json:"cut_high"`
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	Median      float64 `json:"median"`
	MedianLow   float64 `json:"median_low"`
	MedianHigh  float64 `json:"median_high"`
}

// Result is the output of Classify, aligned by index with the input
type Result struct {
	Labels []Labels
	Groups []GroupStats
}

// CutPoints returns the lower and upper quantiles used for a group with n
// valid values. Larger groups get narrower tails.
func CutPoints(n int) (float64, float64) {
	switch {
	case n >= 2000:
		return 0.02, 0.98
	case n >= 1000:
		return 0.03, 0.97
	default:
		return 0.05, 0.95
	}
}

// GroupKey normalises a category cell into its grouping key
func GroupKey(raw string) string {
	return strings.TrimSpace(raw)
}

// Classify labels every observation against the statistics of its own
// group. Observations without a value are excluded from the statistics
// and flagged by both rules.
func Classify(observations []Observation) Result {
	members := make(map[string][]int)
	for i, o := range observations {
		key := GroupKey(o.Group)
		members[key] = append(members[key], i)
	}

	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := Result{
		Labels: make([]Labels, len(observations)),
		Groups: make([]GroupStats, 0, len(keys)),
	}

	for _, key := range keys {
		idx := members[key]
		stats := computeGroup(key, observations, idx)
		result.Groups = append(result.Groups, stats)

		for _, i := range idx {
			result.Labels[i] = label(observations[i].Value, stats)
		}
	}

	return result
}

func computeGroup(key string, observations []Observation, idx []int) GroupStats {
	values := make([]float64, 0, len(idx))
	for _, i := range idx {
		if v := observations[i].Value; v != nil {
			values = append(values, *v)
		}
	}

	stats := GroupStats{
		Group:       key,
		Records:     len(idx),
		ValidPrices: len(values),
	}
	if len(values) == 0 {
		return stats
	}

	sorted := sortedCopy(values)
	stats.CutLow, stats.CutHigh = CutPoints(len(sorted))
	stats.Lower = Quantile(sorted, stats.CutLow)
	stats.Upper = Quantile(sorted, stats.CutHigh)
	stats.Median = Median(sorted)
	stats.MedianLow = stats.Median / MedianFactor
	stats.MedianHigh = stats.Median * MedianFactor
	return stats
}

func label(value *float64, stats GroupStats) Labels {
	if value == nil {
		return Labels{Quartile: domain.QuartileOutlier, Median: domain.MedianOutlier}
	}

	labels := Labels{Quartile: domain.QuartileOK, Median: domain.MedianOK}
	v := *value
	if v < stats.Lower || v > stats.Upper {
		labels.Quartile = domain.QuartileOutlier
	}
	if v < stats.MedianLow || v > stats.MedianHigh {
		labels.Median = domain.MedianOutlier
	}
	return labels
}
