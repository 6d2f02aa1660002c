// Package app wires configuration, telemetry, services and HTTP routes into
// the skucheck API server and manages its lifecycle.
//
// # Initialization Flow
//
//  1. Resolve and create the data, exports and logs directories
//  2. Initialize OpenTelemetry and the business metrics
//  3. Start the WebSocket hub when enabled
//  4. Create the validation and health services
//  5. Build the chi router and the HTTP server
//
// # Routes
//
//	POST /api/validate     multipart catalog upload, returns JSON, XLSX or CSV
//	POST /api/parse        quantity extraction for a list of descriptions
//	GET  /api/health       overall health
//	GET  /api/health/live  liveness probe
//	GET  /api/health/ready readiness probe
//	GET  /api/version      build and API version
//	GET  /ws               run progress events
//	GET  /metrics          Prometheus scrape endpoint
//
// # Graceful Shutdown
//
// Run stops on SIGINT, SIGTERM or context cancellation. In-flight requests
// are drained before the hub closes its clients and telemetry is flushed.
//
// Configuration loading and logger setup belong to the caller; the package
// never calls os.Exit.
package app
