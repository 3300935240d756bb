package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric DockNet records.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Pipeline
	StageCompletionsTotal CounterVec
	StageFailuresTotal    CounterVec
	ProjectsTotal         GaugeVec

	// Collaborators
	ServiceCallsTotal   CounterVec
	ServiceCallDuration HistogramVec

	// Outbound
	EventsPublishedTotal    CounterVec
	SnapshotsPublishedTotal CounterVec
	ArtifactsUploadedTotal  CounterVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultServiceDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10, 30}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal: collector.RegisterCounter("http_requests_total",
			"Total HTTP requests.", "method", "route", "status"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds",
			"HTTP request latency.", DefaultHTTPDurationBuckets, "method", "route"),

		StageCompletionsTotal: collector.RegisterCounter("stage_completions_total",
			"Pipeline stage completions.", "stage", "next_stage"),
		StageFailuresTotal: collector.RegisterCounter("stage_failures_total",
			"Rejected pipeline stage completions.", "stage", "code"),
		ProjectsTotal: collector.RegisterGauge("projects",
			"Projects held in the store by status.", "status"),

		ServiceCallsTotal: collector.RegisterCounter("service_calls_total",
			"Collaborator service calls.", "service", "outcome"),
		ServiceCallDuration: collector.RegisterHistogram("service_call_duration_seconds",
			"Collaborator service latency.", DefaultServiceDurationBuckets, "service"),

		EventsPublishedTotal: collector.RegisterCounter("events_published_total",
			"Stage events handed to the broker.", "type", "outcome"),
		SnapshotsPublishedTotal: collector.RegisterCounter("snapshots_published_total",
			"Project snapshots pushed to the cache.", "outcome"),
		ArtifactsUploadedTotal: collector.RegisterCounter("artifacts_uploaded_total",
			"Exported structure files uploaded.", "format", "outcome"),
	}
}

// NewNoopAppMetrics returns metrics that record nothing.
func NewNoopAppMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:       noopCounterVec{},
		HTTPRequestDuration:     noopHistogramVec{},
		StageCompletionsTotal:   noopCounterVec{},
		StageFailuresTotal:      noopCounterVec{},
		ProjectsTotal:           noopGaugeVec{},
		ServiceCallsTotal:       noopCounterVec{},
		ServiceCallDuration:     noopHistogramVec{},
		EventsPublishedTotal:    noopCounterVec{},
		SnapshotsPublishedTotal: noopCounterVec{},
		ArtifactsUploadedTotal:  noopCounterVec{},
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordHTTPRequest records one served request.
func (m *AppMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordStageCompletion records a successful transition.
func (m *AppMetrics) RecordStageCompletion(stage, next string) {
	m.StageCompletionsTotal.WithLabelValues(stage, next).Inc()
}

// RecordStageFailure records a rejected completion.
func (m *AppMetrics) RecordStageFailure(stage, code string) {
	m.StageFailuresTotal.WithLabelValues(stage, code).Inc()
}

// RecordServiceCall records one collaborator call.
func (m *AppMetrics) RecordServiceCall(service string, d time.Duration, err error) {
	m.ServiceCallsTotal.WithLabelValues(service, outcome(err)).Inc()
	m.ServiceCallDuration.WithLabelValues(service).Observe(d.Seconds())
}

// SetProjectCounts replaces the per-status project gauge.
func (m *AppMetrics) SetProjectCounts(counts map[string]int) {
	for status, n := range counts {
		m.ProjectsTotal.WithLabelValues(status).Set(float64(n))
	}
}

// RecordEventPublished records a broker publish attempt.
func (m *AppMetrics) RecordEventPublished(eventType string, err error) {
	m.EventsPublishedTotal.WithLabelValues(eventType, outcome(err)).Inc()
}

// RecordSnapshotPublished records a cache publish attempt.
func (m *AppMetrics) RecordSnapshotPublished(err error) {
	m.SnapshotsPublishedTotal.WithLabelValues(outcome(err)).Inc()
}

// RecordArtifactUploaded records an export upload attempt.
func (m *AppMetrics) RecordArtifactUploaded(format string, err error) {
	m.ArtifactsUploadedTotal.WithLabelValues(format, outcome(err)).Inc()
}
