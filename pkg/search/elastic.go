package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for source index operations.
var (
	sourceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_source_requests_total",
		Help: "Total search index requests by operation and outcome",
	}, []string{"operation", "outcome"})

	sourceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_source_request_duration_seconds",
		Help:    "Search index request duration in seconds by operation",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"operation"})
)

// Elastic is the Provider implementation backed by Elasticsearch.
type Elastic struct {
	client  *elasticsearch.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// NewElastic creates a provider for the index reachable at addr. Every
// call carries a bounded timeout; a slow index fails the single request,
// never the process.
func NewElastic(addr string, timeout time.Duration, logger zerolog.Logger) (*Elastic, error) {
	if addr == "" {
		return nil, fmt.Errorf("elasticsearch address is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return &Elastic{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// GetByID implements Provider. A 404 from the index is an absent
// document, not an error.
func (e *Elastic) GetByID(ctx context.Context, index, id string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		sourceRequestDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	res, err := e.client.Get(index, id, e.client.Get.WithContext(ctx))
	if err != nil {
		sourceRequestsTotal.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("index get %s/%s: %w", index, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		sourceRequestsTotal.WithLabelValues("get", "not_found").Inc()
		return nil, nil
	}
	if res.IsError() {
		sourceRequestsTotal.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("index get %s/%s: %s", index, id, res.Status())
	}

	var doc struct {
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		sourceRequestsTotal.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("decode get response: %w", err)
	}

	sourceRequestsTotal.WithLabelValues("get", "ok").Inc()
	return doc.Source, nil
}

// Search implements Provider. A missing index yields an empty result,
// matching the read path's availability-over-correctness stance.
func (e *Elastic) Search(ctx context.Context, index string, q Query) ([]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		sourceRequestDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode query body: %w", err)
	}

	e.logger.Debug().Str("index", index).RawJSON("body", body).Msg("Executing index search")

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		sourceRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, fmt.Errorf("index search %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		sourceRequestsTotal.WithLabelValues("search", "not_found").Inc()
		return []json.RawMessage{}, nil
	}
	if res.IsError() {
		sourceRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, fmt.Errorf("index search %s: %s", index, res.Status())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		sourceRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]json.RawMessage, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		items = append(items, hit.Source)
	}

	sourceRequestsTotal.WithLabelValues("search", "ok").Inc()
	return items, nil
}

// Ping reports whether the index is reachable, for readiness checks.
func (e *Elastic) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index ping: %s", res.Status())
	}
	return nil
}
