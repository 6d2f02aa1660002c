package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skucheck/pkg/contracts/domain"
)

func ptr(v int64) *int64 { return &v }

func TestReconcileContent(t *testing.T) {
	tests := []struct {
		name      string
		extracted *int64
		declared  string
		want      domain.ContentVerdict
	}{
		{"exact match", ptr(500), "500", domain.ContentOK},
		{"within tolerance", ptr(500), "500,9", domain.ContentOK},
		{"below within tolerance", ptr(500), "499.5", domain.ContentOK},
		{"difference of one", ptr(500), "501", domain.ContentProblem},
		{"difference beyond tolerance", ptr(500), "501.5", domain.ContentProblem},
		{"nothing extracted", nil, "500", domain.ContentProblem},
		{"blank declared", ptr(500), "", domain.ContentProblem},
		{"non numeric declared", ptr(500), "quinhentos", domain.ContentProblem},
		{"comma decimal", ptr(1500), "1500,0", domain.ContentOK},
		{"unit count", ptr(72), "72", domain.ContentOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileContent(tt.extracted, tt.declared))
		})
	}
}
