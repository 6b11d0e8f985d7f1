package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var changeEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderator_change_events_published",
	Help: "Number of aggregate change events handed to the sink",
}, []string{"kind"})

var changeEventsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderator_change_events_suppressed",
	Help: "Number of change events dropped because nothing changed since the last one",
}, []string{"kind"})
