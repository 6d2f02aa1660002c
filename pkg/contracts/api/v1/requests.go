// Package api contains the HTTP API contracts of skucheck.
// Version v1 represents the current stable API version.
package api

import (
	"skucheck/pkg/contracts/domain"
)

// ValidateRequest carries the non-file parameters of POST /api/validate
type ValidateRequest struct {
	Format     string   `json:"format" query:"format" validate:"omitempty,oneof=json xlsx csv"`
	AuxColumns []string `json:"aux_columns,omitempty" validate:"omitempty,max=50,dive,required"`
	JoinKey    string   `json:"join_key,omitempty" validate:"omitempty,max=200"`
}

// ParseRequest asks for the packaged quantity of each description
type ParseRequest struct {
	Descriptions []string `json:"descriptions" validate:"required,min=1,max=10000,dive,max=1000"`
}

// ParseResult is the parsed quantity of one description
type ParseResult struct {
	Description string                   `json:"description"`
	Quantity    domain.ExtractedQuantity `json:"quantity"`
}

// ParseResponse answers a ParseRequest in input order
type ParseResponse struct {
	Results []ParseResult `json:"results"`
}

// HealthCheckRequest represents a health check request
type HealthCheckRequest struct {
	Detailed bool `json:"detailed" query:"detailed"`
}
