package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scm_client"

// RPCMetrics records every JSON-RPC round trip made by the chain client.
type RPCMetrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	transactions *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *RPCMetrics {
	m := &RPCMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "JSON-RPC requests by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_request_duration_seconds",
			Help:      "JSON-RPC request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_sent_total",
			Help:      "Transactions broadcast by contract method.",
		}, []string{"method"}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.transactions)
	return m
}

// ObserveRPC records one request. A nil receiver is a no-op.
func (m *RPCMetrics) ObserveRPC(method string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(time.Since(started).Seconds())
}

// TransactionSent counts a broadcast transaction.
func (m *RPCMetrics) TransactionSent(method string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(method).Inc()
}

// WriteTextfile dumps the collected metrics in the node_exporter textfile format.
func (m *RPCMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
