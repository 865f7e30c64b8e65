// Package metrics provides the central Prometheus registry reference for
// the query gateway. Metrics are defined in their owning packages (cache,
// search, server) to maintain modularity and avoid circular dependencies.
//
// This package documents the available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the gateway.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - gateway_cache_hits_total{entity} (Counter): Cache hits by entity
//   - gateway_cache_misses_total{entity} (Counter): Cache misses by entity
//   - gateway_cache_errors_total{operation} (Counter): Store operation errors
//   - gateway_cache_written_bytes_total{entity} (Counter): Bytes written on populate
//
// Source Metrics (pkg/search):
//   - gateway_source_requests_total{operation, outcome} (Counter): Index requests
//   - gateway_source_request_duration_seconds{operation} (Histogram): Index latency
//
// HTTP Metrics (internal/server):
//   - gateway_http_requests_total{route, status} (Counter): Handled requests
//   - gateway_http_request_duration_seconds{route} (Histogram): Request latency
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(gateway_cache_hits_total[5m])) /
//   (sum(rate(gateway_cache_hits_total[5m])) + sum(rate(gateway_cache_misses_total[5m])))
//
//   # Source Error Rate
//   rate(gateway_source_requests_total{outcome="error"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(gateway_http_request_duration_seconds_bucket[5m]))
