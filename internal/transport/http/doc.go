// Package http exposes the validation service over HTTP.
//
// Handlers decode requests, delegate to internal/services and render
// responses with go-chi/render. Failures go through apierrors.ErrorHandler
// and are returned as RFC 7807 problem documents.
//
// # Endpoints
//
//	POST /api/validate        multipart catalog upload, ?format=json|xlsx|csv
//	POST /api/parse           quantity extraction for a list of descriptions
//	GET  /api/health          basic health
//	GET  /api/health/live     liveness probe
//	GET  /api/health/ready    readiness probe, 503 when not ready
//	GET  /api/version         build information
package http
