// Package config loads skucheck configuration.
//
// # Configuration Sources
//
// Values are resolved in the following order, later sources winning:
//
//  1. Defaults (Default)
//  2. A YAML file (--config flag, SKUCHECK_CONFIG, or config.yaml / configs/config.yaml)
//  3. Environment variables prefixed with SKUCHECK_
//
// # Environment Variables
//
// Nested sections are flattened with underscores:
//
//	SKUCHECK_SERVER_PORT=8080
//	SKUCHECK_LOGGING_LEVEL=debug
//	SKUCHECK_COLUMNS_PRICE="Precio KG/LT,Preço kg/lt"
//
// List values are comma separated.
//
// # Column Aliases
//
// ColumnAliases maps each logical catalog field to the ordered list of
// header fragments accepted for it. The first alias found as a
// case-insensitive substring of a header wins.
//
// # Validation
//
// Load validates the merged configuration with go-playground/validator
// struct tags and fails fast on the first invalid section.
package config
