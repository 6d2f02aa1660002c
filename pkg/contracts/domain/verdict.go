package domain

// ContentVerdict compares the parsed quantity with the declared content
type ContentVerdict string

const (
	ContentOK      ContentVerdict = "OK"
	ContentProblem ContentVerdict = "PROBLEMA"
)

// QuartileVerdict is the outcome of the per-category percentile band test
type QuartileVerdict string

const (
	QuartileOK      QuartileVerdict = "OK"
	QuartileOutlier QuartileVerdict = "OUTLIER"
)

// MedianVerdict is the outcome of the per-category median ratio test
type MedianVerdict string

const (
	MedianOK      MedianVerdict = "OK"
	MedianOutlier MedianVerdict = "OUTLIER_MEDIANA"
)

// OverallStatus aggregates the three verdicts of a record
type OverallStatus string

const (
	StatusOK   OverallStatus = "OK"
	StatusRisk OverallStatus = "RISCO"
)

func (v ContentVerdict) String() string  { return string(v) }
func (v QuartileVerdict) String() string { return string(v) }
func (v MedianVerdict) String() string   { return string(v) }
func (s OverallStatus) String() string   { return string(s) }

// IsOK reports whether the verdict raises no flag
func (v ContentVerdict) IsOK() bool { return v == ContentOK }

// IsOK reports whether the verdict raises no flag
func (v QuartileVerdict) IsOK() bool { return v == QuartileOK }

// IsOK reports whether the verdict raises no flag
func (v MedianVerdict) IsOK() bool { return v == MedianOK }

// OverallFor returns StatusRisk when any verdict is not OK
func OverallFor(c ContentVerdict, q QuartileVerdict, m MedianVerdict) OverallStatus {
	if c.IsOK() && q.IsOK() && m.IsOK() {
		return StatusOK
	}
	return StatusRisk
}

// AnnotatedRecord is a record together with every label computed for it
type AnnotatedRecord struct {
	ProductRecord
	Quantity ExtractedQuantity `json:"quantity"`
	Content  ContentVerdict    `json:"content"`
	Quartile QuartileVerdict   `json:"quartile"`
	Median   MedianVerdict     `json:"median"`
	Overall  OverallStatus     `json:"overall"`
}
