package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// tvrs-api metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tvrs_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"route", "method", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tvrs_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	ActiveRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tvrs_active_requests",
		Help: "Current in-flight requests",
	})

	// audit subsystem metrics
	AuditEventsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tvrs_audit_events_recorded_total",
		Help: "Audit events written, by action",
	}, []string{"action"})

	AuditRecordFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tvrs_audit_record_failures_total",
		Help: "Audit writes that were dropped after a store error",
	})

	AuditQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tvrs_audit_query_duration_seconds",
		Help:    "Audit log query latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"category"})

	AuditExportRows = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tvrs_audit_export_rows",
		Help:    "Rows per generated export",
		Buckets: []float64{10, 100, 1000, 10000},
	})

	// enforcement metrics
	TicketsIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tvrs_tickets_issued_total",
		Help: "Tickets issued",
	})

	PaymentsRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tvrs_payments_recorded_total",
		Help: "Payments recorded",
	})

	LicenseSuspensionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tvrs_license_suspensions_total",
		Help: "Automatic threshold-triggered license suspensions",
	})

	LoginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tvrs_login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})
)

func RegisterAll(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, ActiveRequests,
		AuditEventsRecorded, AuditRecordFailures, AuditQueryDuration, AuditExportRows,
		TicketsIssuedTotal, PaymentsRecordedTotal, LicenseSuspensionsTotal, LoginAttemptsTotal,
	)
}
