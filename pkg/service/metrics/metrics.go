package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Classifier outcomes
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomeSkipped = "skipped"
)

// Service owns a private Prometheus registry. All methods are safe on a nil receiver.
type Service struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	fallbackReads     *prometheus.CounterVec
	classifierTotal   *prometheus.CounterVec
	storeWrites       *prometheus.CounterVec
	storeLive         prometheus.Gauge
	notificationTotal *prometheus.CounterVec
}

// New registers all collectors
func New() *Service {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	fallbackReads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buddyguard_fallback_reads_total",
		Help: "Reads served from the local cache or sample data because the store failed",
	}, []string{"kind", "source"})

	classifierTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buddyguard_classifier_requests_total",
		Help: "Advisory classification requests by outcome",
	}, []string{"outcome"})

	storeWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buddyguard_store_writes_total",
		Help: "Store writes by operation and result",
	}, []string{"op", "result"})

	storeLive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "buddyguard_store_live",
		Help: "1 when the last liveness probe succeeded",
	})

	notificationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buddyguard_notifications_total",
		Help: "Staff notifications by result",
	}, []string{"result"})

	registry.MustRegister(
		requestDuration, requestTotal, fallbackReads, classifierTotal,
		storeWrites, storeLive, notificationTotal,
		collectors.NewGoCollector(),
	)

	return &Service{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		fallbackReads:     fallbackReads,
		classifierTotal:   classifierTotal,
		storeWrites:       storeWrites,
		storeLive:         storeLive,
		notificationTotal: notificationTotal,
	}
}

// Handler exposes the Prometheus HTTP handler
func (m *Service) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request count and latency
func (m *Service) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordFallbackRead counts a read that did not come from the store
func (m *Service) RecordFallbackRead(kind, source string) {
	if m == nil {
		return
	}
	m.fallbackReads.WithLabelValues(kind, source).Inc()
}

// RecordClassifier counts a classification attempt
func (m *Service) RecordClassifier(outcome string) {
	if m == nil {
		return
	}
	m.classifierTotal.WithLabelValues(outcome).Inc()
}

// RecordStoreWrite counts a store write
func (m *Service) RecordStoreWrite(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeWrites.WithLabelValues(op, result).Inc()
}

// SetStoreLive records the latest liveness probe result
func (m *Service) SetStoreLive(live bool) {
	if m == nil {
		return
	}
	if live {
		m.storeLive.Set(1)
	} else {
		m.storeLive.Set(0)
	}
}

// RecordNotification counts a notification attempt
func (m *Service) RecordNotification(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.notificationTotal.WithLabelValues(result).Inc()
}
