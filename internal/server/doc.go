// Package server implements the viewer's HTTP server using Echo framework.
//
// Routes: ingest (POST /api/log), live event stream (GET /api/logs/stream,
// Server-Sent Events), history snapshot, embedded web UI, health/metrics.
// Handlers split by concern: handlers_ingest.go, handlers_stream.go,
// handlers_health.go.
package server
