package http

import (
	"context"

	"skucheck/internal/services"
	"skucheck/pkg/contracts/domain"
)

// ValidationService is the part of services.ValidationService used by the
// handlers
type ValidationService interface {
	Run(ctx context.Context, req services.RunRequest) (*services.RunResult, error)
	Parse(descriptions []string) []domain.ExtractedQuantity
}
