// Package services implements the application layer shared by the CLI and
// the HTTP API. Handlers and commands stay thin and delegate here.
//
// # Available Services
//
//   - ValidationService: reads catalog files, joins auxiliary data and
//     annotates every row with packaging and price verdicts
//   - HealthService: liveness, readiness and version reporting
//
// # Validation Runs
//
// A run reads the primary catalog and an optional auxiliary table
// concurrently, resolves the configured column aliases, left-joins the
// auxiliary columns, drops rows without positive sales when a sales column
// exists, and annotates the remaining rows:
//
//	svc := services.NewValidationService(cfg.Columns, hub, metrics, nil, logger)
//	res, err := svc.Run(ctx, services.RunRequest{
//	    Primary: services.Source{Path: "catalogo.xlsx"},
//	})
//
// Each run gets a UUID and a content fingerprint of the primary input. Runs
// are traced and counted through OpenTelemetry and announced on the
// WebSocket hub when one is configured.
//
// # Error Handling
//
// Run returns errors that the HTTP layer maps to problem responses:
//
//   - *apierrors.AppError of type VALIDATION for bad requests
//   - *dataset.MissingColumnsError when required columns are absent
//   - dataset.ErrEmptyDataset when nothing is left to annotate
//   - dataset.ErrUnsupportedFormat for unknown file types
package services
