package ports

import (
	"context"
	"time"
)

// QueuedJob is the wire form of a moderation job.
type QueuedJob struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Payload    []byte    `json:"payload"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
	Attempt    int       `json:"attempt,omitempty"`
}

// JobHandler executes one delivery. Errors marked with errs.Permanent must not be redelivered.
type JobHandler func(ctx context.Context, job QueuedJob) error

// TaskQueue hands deferred jobs to workers with at-least-once delivery.
type TaskQueue interface {
	Publish(ctx context.Context, job QueuedJob) error
	// Consume blocks, feeding deliveries to handle until ctx is done.
	Consume(ctx context.Context, handle JobHandler) error
}
