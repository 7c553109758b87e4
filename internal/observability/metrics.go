package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	scanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "followup_service",
		Subsystem: "scanner",
		Name:      "scan_duration_seconds",
		Help:      "Wall-clock time of a full inactivity scan.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})
	scanCompletedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "followup_service",
		Subsystem: "scanner",
		Name:      "last_scan_completed_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed inactivity scan.",
	})
	tasksCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "followup_service",
		Subsystem: "scanner",
		Name:      "tasks_created_total",
		Help:      "Number of inactivity follow-up tasks created by scans.",
	})
	notificationsCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "followup_service",
		Subsystem: "scanner",
		Name:      "notifications_created_total",
		Help:      "Number of inactivity notifications created by scans.",
	})
	leadErrorsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "followup_service",
		Subsystem: "scanner",
		Name:      "lead_errors_total",
		Help:      "Number of per-lead failures recorded (and skipped) during scans.",
	})
)

func init() {
	prometheus.MustRegister(scanDuration, scanCompletedGauge, tasksCreatedCounter, notificationsCreatedCounter, leadErrorsCounter)
}

// RecordScan publishes the outcome of a completed scan run.
func RecordScan(duration time.Duration, tasksCreated, notificationsCreated, leadErrors int) {
	scanDuration.Observe(duration.Seconds())
	scanCompletedGauge.SetToCurrentTime()
	tasksCreatedCounter.Add(float64(tasksCreated))
	notificationsCreatedCounter.Add(float64(notificationsCreated))
	leadErrorsCounter.Add(float64(leadErrors))
}
