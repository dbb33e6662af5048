// Package observability exports routing engine counters to Prometheus.
package observability
