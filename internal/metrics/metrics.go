package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotelfm_requests_total",
			Help: "Total number of requests per hotel",
		},
		[]string{"hotel"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotelfm_request_duration_seconds",
			Help:    "Request duration in seconds per hotel and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"hotel", "path"},
	)

	RequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotelfm_request_errors_total",
			Help: "Total number of error responses per hotel, path and code",
		},
		[]string{"hotel", "path", "code"},
	)

	BillFetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotelfm_bill_fetch_duration_seconds",
			Help:    "Upstream bill fetch duration in seconds per hotel",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"hotel"},
	)

	IncompleteMonths = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hotelfm_incomplete_months",
			Help: "Number of incomplete months in the current-year series per hotel",
		},
		[]string{"hotel"},
	)
)

var (
	ScheduledJobLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hotelfm_job_last_run_timestamp",
			Help: "Unix timestamp of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobLastDurationSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hotelfm_job_last_duration_seconds",
			Help: "Duration of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotelfm_job_failures_total",
			Help: "Total number of failed executions per job",
		},
		[]string{"job"},
	)
)

func UpdateJobMetrics(job string, startedAt time.Time, err error) {
	dur := time.Since(startedAt).Seconds()
	ScheduledJobLastDurationSeconds.WithLabelValues(job).Set(dur)
	ScheduledJobLastRun.WithLabelValues(job).Set(float64(time.Now().Unix()))
	if err != nil {
		ScheduledJobFailuresTotal.WithLabelValues(job).Inc()
	}
}
