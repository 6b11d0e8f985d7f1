package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderator_queue_deliveries",
	Help: "Number of job deliveries handed to the handler, by driver and outcome",
}, []string{"driver", "outcome"})

var localQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "moderator_local_queue_depth",
	Help: "Jobs buffered in the in-process queue",
})
