package validation

import (
	"math"

	"skucheck/internal/numeric"
	"skucheck/pkg/contracts/domain"
)

// contentTolerance is the largest absolute difference, in grams or units,
// still accepted as agreement.
const contentTolerance = 1.0

// ReconcileContent compares the quantity parsed from the description with
// the declared content cell. A missing side, or a declared value that does
// not parse, is a problem.
func ReconcileContent(extracted *int64, declared string) domain.ContentVerdict {
	if extracted == nil {
		return domain.ContentProblem
	}
	value, ok := numeric.ParseDeclared(declared)
	if !ok {
		return domain.ContentProblem
	}
	if math.Abs(float64(*extracted)-value) < contentTolerance {
		return domain.ContentOK
	}
	return domain.ContentProblem
}
