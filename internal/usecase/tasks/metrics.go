package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var jobsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderator_jobs_enqueued",
	Help: "Number of moderation jobs accepted, by job and execution mode",
}, []string{"job", "mode"})

var jobsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderator_jobs_executed",
	Help: "Number of moderation job deliveries executed, by job and result",
}, []string{"job", "result"})

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "moderator_job_duration_sec",
	Help:    "Duration of moderation job execution",
	Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
}, []string{"job"})
