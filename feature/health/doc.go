// Package health exposes GET /v1/health, reporting liveness and, when a store
// is configured, whether the database answers a ping.
package health
