// Package metrics exposes the exporter's prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide counters, registered once at startup.
type Metrics struct {
	ExportsTotal        *prometheus.CounterVec
	ExportFailuresTotal *prometheus.CounterVec
	MailsSentTotal      prometheus.Counter
	SchedulerRunsTotal  *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bmd_exports_total",
			Help: "Completed exports by kind.",
		}, []string{"kind"}),
		ExportFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bmd_export_failures_total",
			Help: "Failed exports by kind.",
		}, []string{"kind"}),
		MailsSentTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "commission_mails_sent_total",
			Help: "Commission notification mails handed to the mail provider.",
		}),
		SchedulerRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_job_runs_total",
			Help: "Scheduler job executions by job and outcome.",
		}, []string{"job", "status"}),
	}
}
