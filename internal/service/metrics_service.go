package service

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation on a private registry.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	syncDuration    *prometheus.HistogramVec
	syncTotal       *prometheus.CounterVec
	deadLetters     *prometheus.CounterVec

	requestCount uint64
	syncFailures uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
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

	syncDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "course_sync_duration_seconds",
		Help:    "Duration of course snapshot syncs",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "status"})

	syncTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "course_sync_total",
		Help: "Total number of course snapshot syncs",
	}, []string{"backend", "status"})

	deadLetters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "course_sync_dead_letters_total",
		Help: "Course sync jobs abandoned after exhausting retries",
	}, []string{"backend"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, syncDuration, syncTotal, deadLetters, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		syncDuration:    syncDuration,
		syncTotal:       syncTotal,
		deadLetters:     deadLetters,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// RegisterCollectionGauges exposes courses_total and users_total backed by the given counters.
func (m *MetricsService) RegisterCollectionGauges(courses, users func() int) error {
	if m == nil {
		return nil
	}
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "courses_total",
			Help: "Number of courses held in memory",
		}, func() float64 { return float64(courses()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Number of users held in memory",
		}, func() float64 { return float64(users()) }),
	}
	for _, g := range gauges {
		if err := m.registry.Register(g); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return fmt.Errorf("register collection gauge: %w", err)
		}
	}
	return nil
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// ObserveSync records one course sync attempt against backend.
func (m *MetricsService) ObserveSync(backend string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		atomic.AddUint64(&m.syncFailures, 1)
	}
	m.syncDuration.WithLabelValues(backend, status).Observe(duration.Seconds())
	m.syncTotal.WithLabelValues(backend, status).Inc()
}

// ObserveDeadLetter counts a sync job dropped after its last retry.
func (m *MetricsService) ObserveDeadLetter(backend string) {
	if m == nil {
		return
	}
	m.deadLetters.WithLabelValues(backend).Inc()
}

// RequestCount returns how many HTTP requests were observed.
func (m *MetricsService) RequestCount() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.requestCount)
}

// SyncFailures returns how many sync attempts failed.
func (m *MetricsService) SyncFailures() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.syncFailures)
}
