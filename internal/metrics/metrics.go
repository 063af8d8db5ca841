// Package metrics exposes review workflow and HTTP counters to Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	backlog     *prometheus.GaugeVec
	requests    *prometheus.CounterVec
}

func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_transitions_total",
			Help: "Flag and approve attempts by record kind and outcome.",
		}, []string{"kind", "action", "result"}),
		backlog: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "review_backlog",
			Help: "Records awaiting a decision, split by whether they are flagged.",
		}, []string{"kind", "state"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
	}
	for _, c := range []prometheus.Collector{m.transitions, m.backlog, m.requests} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) ObserveTransition(kind, action, result string) {
	m.transitions.WithLabelValues(kind, action, result).Inc()
}

// SetBacklog replaces every backlog gauge with counts.
func (m *Metrics) SetBacklog(counts []store.BacklogCount) {
	m.backlog.Reset()
	for _, c := range counts {
		m.backlog.WithLabelValues(c.Kind, c.State).Set(float64(c.Count))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// Instrument counts requests by their chi route pattern so path ids do not
// explode label cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
