// Package api hosts the read-only ops HTTP surface:
//   - GET /healthz and /readyz for probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/runs and /v1/runs/{run_id} for recent run history.
//   - GET /v1/schedule for the pending weekly trigger.
//
// Nothing here can start a run.
package api
