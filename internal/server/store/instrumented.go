package store

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/astdirectory/internal/common"
)

// Metrics holds the collectors recorded by Instrumented.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the store collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "astdirectory",
			Subsystem: "store",
			Name:      "requests_total",
			Help:      "Store round trips by table, operation and outcome.",
		}, []string{"table", "op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "astdirectory",
			Subsystem: "store",
			Name:      "request_duration_seconds",
			Help:      "Store round trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "op"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Instrumented wraps a Store and records one observation per call.
type Instrumented struct {
	next    Store
	metrics *Metrics
}

// Instrument decorates next with metrics.
func Instrument(next Store, m *Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (s *Instrumented) Scan(ctx context.Context, table string) ([]Document, error) {
	defer s.observe(table, "scan", time.Now())
	docs, err := s.next.Scan(ctx, table)
	s.count(table, "scan", err)
	return docs, err
}

func (s *Instrumented) Query(ctx context.Context, table string, key Key) ([]Document, error) {
	defer s.observe(table, "query", time.Now())
	docs, err := s.next.Query(ctx, table, key)
	s.count(table, "query", err)
	return docs, err
}

func (s *Instrumented) Put(ctx context.Context, table string, key Key, item Document, cond Condition) error {
	defer s.observe(table, "put", time.Now())
	err := s.next.Put(ctx, table, key, item, cond)
	s.count(table, "put", err)
	return err
}

func (s *Instrumented) Update(ctx context.Context, table string, key Key, set []Assignment) error {
	defer s.observe(table, "update", time.Now())
	err := s.next.Update(ctx, table, key, set)
	s.count(table, "update", err)
	return err
}

func (s *Instrumented) observe(table, op string, start time.Time) {
	s.metrics.latency.WithLabelValues(table, op).Observe(time.Since(start).Seconds())
}

func (s *Instrumented) count(table, op string, err error) {
	s.metrics.requests.WithLabelValues(table, op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	default:
		return "error"
	}
}
