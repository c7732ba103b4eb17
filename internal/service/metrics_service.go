package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hatchpoint/intake-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the intake API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	uploadsTotal    prometheus.Counter
	deletionsTotal  *prometheus.CounterVec
	orphanedObjects prometheus.Counter
	loginFailures   prometheus.Counter
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

	uploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resume_uploads_total",
		Help: "Total resume files uploaded to the bucket",
	})

	deletionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "application_deletions_total",
		Help: "Total application deletions by cleanup outcome",
	}, []string{"outcome"})

	orphanedObjects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resume_objects_orphaned_total",
		Help: "Stored objects left behind after a failed best-effort delete",
	})

	loginFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "admin_login_failures_total",
		Help: "Rejected admin login attempts",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, uploadsTotal, deletionsTotal, orphanedObjects, loginFailures, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		uploadsTotal:    uploadsTotal,
		deletionsTotal:  deletionsTotal,
		orphanedObjects: orphanedObjects,
		loginFailures:   loginFailures,
	}
}

// Handler exposes the /metrics endpoint handler.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordUpload counts a successful resume upload.
func (s *MetricsService) RecordUpload() {
	s.uploadsTotal.Inc()
}

// RecordDeletion counts a completed removal by its cleanup outcome and tracks
// orphaned objects separately so they can be alerted on.
func (s *MetricsService) RecordDeletion(state models.CleanupState) {
	s.deletionsTotal.WithLabelValues(string(state)).Inc()
	if state == models.CleanupOrphanedObject {
		s.orphanedObjects.Inc()
	}
}

// RecordLoginFailure counts a rejected admin login.
func (s *MetricsService) RecordLoginFailure() {
	s.loginFailures.Inc()
}
