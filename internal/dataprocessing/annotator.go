package dataprocessing

import (
	"skucheck/internal/dataset"
	"skucheck/internal/outlier"
	"skucheck/internal/quantity"
	"skucheck/internal/validation"
	"skucheck/pkg/contracts/domain"
)

// ErrEmptyDataset is returned when there is nothing to annotate
var ErrEmptyDataset = dataset.ErrEmptyDataset

// Result is the outcome of annotating a set of records
type Result struct {
	Records []domain.AnnotatedRecord `json:"records"`
	Groups  []outlier.GroupStats     `json:"groups"`
	Summary domain.SummaryReport     `json:"summary"`
}

// Annotator labels catalog records. It holds no per-run state and is safe
// for concurrent use.
type Annotator struct {
	parser *quantity.Parser
}

// NewAnnotator creates an annotator. A nil parser uses the default rules.
func NewAnnotator(parser *quantity.Parser) *Annotator {
	if parser == nil {
		parser = quantity.New()
	}
	return &Annotator{parser: parser}
}

var defaultAnnotator = NewAnnotator(nil)

// Annotate labels records with the default annotator
func Annotate(records []domain.ProductRecord, hasSalesVolume bool) (*Result, error) {
	return defaultAnnotator.Annotate(records, hasSalesVolume)
}

// Annotate parses each description, reconciles it with the declared
// content, classifies prices within their category and aggregates the
// verdicts. The input slice is not modified.
func (a *Annotator) Annotate(records []domain.ProductRecord, hasSalesVolume bool) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	observations := make([]outlier.Observation, len(records))
	for i, r := range records {
		observations[i] = outlier.Observation{Group: r.CategoryKey, Value: r.Price}
	}
	classified := outlier.Classify(observations)

	annotated := make([]domain.AnnotatedRecord, len(records))
	for i, r := range records {
		q := a.parser.Parse(r.Description)
		content := validation.ReconcileContent(q.Amount(), r.DeclaredContent)
		labels := classified.Labels[i]

		annotated[i] = domain.AnnotatedRecord{
			ProductRecord: r,
			Quantity:      q,
			Content:       content,
			Quartile:      labels.Quartile,
			Median:        labels.Median,
			Overall:       domain.OverallFor(content, labels.Quartile, labels.Median),
		}
	}

	return &Result{
		Records: annotated,
		Groups:  classified.Groups,
		Summary: Summarize(annotated, hasSalesVolume),
	}, nil
}
