package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"moderator/internal/bootstrap/logging"
	"moderator/internal/errs"
	"moderator/internal/ports"
)

// LocalQueue is an in-process ports.TaskQueue. Jobs live in a buffered channel
// and are lost on exit; use the NATS queue when deferred jobs must survive.
type LocalQueue struct {
	jobs       chan ports.QueuedJob
	workers    int
	maxDeliver int
	backoff    time.Duration
}

var _ ports.TaskQueue = (*LocalQueue)(nil)

func NewLocalQueue(workers int, buffer int, maxDeliver int) *LocalQueue {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if maxDeliver <= 0 {
		maxDeliver = 1
	}
	return &LocalQueue{
		jobs:       make(chan ports.QueuedJob, buffer),
		workers:    workers,
		maxDeliver: maxDeliver,
		backoff:    200 * time.Millisecond,
	}
}

func (q *LocalQueue) Publish(ctx context.Context, job ports.QueuedJob) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	select {
	case q.jobs <- job:
		localQueueDepth.Set(float64(len(q.jobs)))
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "publish local job")
	}
}

// Consume runs the worker pool until ctx is done. Handler errors never stop
// the pool; they drive redelivery instead.
func (q *LocalQueue) Consume(ctx context.Context, handle ports.JobHandler) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if handle == nil {
		return errors.New("job handler is required")
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < q.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case job := <-q.jobs:
					localQueueDepth.Set(float64(len(q.jobs)))
					q.deliver(gctx, job, handle)
				}
			}
		})
	}
	return g.Wait()
}

func (q *LocalQueue) deliver(ctx context.Context, job ports.QueuedJob, handle ports.JobHandler) {
	for attempt := 1; attempt <= q.maxDeliver; attempt++ {
		job.Attempt = attempt
		err := handle(ctx, job)
		if err == nil {
			deliveriesTotal.WithLabelValues("local", "ack").Inc()
			return
		}
		if errs.IsPermanent(err) {
			deliveriesTotal.WithLabelValues("local", "term").Inc()
			return
		}
		deliveriesTotal.WithLabelValues("local", "nak").Inc()

		select {
		case <-ctx.Done():
			return
		case <-time.After(q.backoff * time.Duration(attempt)):
		}
	}

	logging.Error(ctx, "job dropped after max deliveries",
		slog.String("component", "queue"),
		slog.String("job_id", job.ID),
		slog.String("job_name", job.Name),
		slog.Int("max_deliver", q.maxDeliver),
	)
}
