package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/blogem/crud-audit/models"
)

// AuditMetrics holds Prometheus metrics for the audit recorder.
type AuditMetrics struct {
	Recorded      *prometheus.CounterVec
	Skipped       *prometheus.CounterVec
	WriteFailures prometheus.Counter
}

// NewAuditMetrics registers the audit metrics with reg.
func NewAuditMetrics(reg prometheus.Registerer) *AuditMetrics {
	factory := promauto.With(reg)
	return &AuditMetrics{
		Recorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crud_audit_records_total",
			Help: "Total number of audit records written, by action",
		}, []string{"action"}),
		Skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crud_audit_skipped_total",
			Help: "Total number of mutations not logged because they did not succeed, by action",
		}, []string{"action"}),
		WriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "crud_audit_write_failures_total",
			Help: "Total number of audit records that failed to persist",
		}),
	}
}

func (m *AuditMetrics) incRecorded(action models.Action) {
	m.Recorded.WithLabelValues(action.String()).Inc()
}

func (m *AuditMetrics) incSkipped(action models.Action) {
	m.Skipped.WithLabelValues(action.String()).Inc()
}

func (m *AuditMetrics) incWriteFailures() {
	m.WriteFailures.Inc()
}
