package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"moderator/internal/bootstrap/logging"
	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/ports"
	"moderator/internal/usecase/moderation"
)

// Moderator is the part of the moderation service the job handlers call.
type Moderator interface {
	Transition(ctx context.Context, t domainmoderation.Transition, input moderation.ActionInput) error
	TagComment(ctx context.Context, input moderation.TagInput) error
	TagCommentSummaryScore(ctx context.Context, input moderation.TagInput) error
	ConfirmCommentSummaryScore(ctx context.Context, input moderation.TagInput) error
	RejectCommentSummaryScore(ctx context.Context, input moderation.TagInput) error
	AddTag(ctx context.Context, input moderation.TagInput) error
	RemoveTag(ctx context.Context, input moderation.TagInput) error
	ConfirmTag(ctx context.Context, input moderation.TagInput) error
	RejectTag(ctx context.Context, input moderation.TagInput) error
	ResetTag(ctx context.Context, input moderation.TagInput) error
}

// Runner turns named jobs into moderation calls, either inline or through a queue.
type Runner struct {
	svc   Moderator
	queue ports.TaskQueue
	newID func() string
	now   func() time.Time
}

func NewRunner(svc Moderator, queue ports.TaskQueue) *Runner {
	return &Runner{
		svc:   svc,
		queue: queue,
		newID: func() string { return uuid.NewString() },
		now:   time.Now,
	}
}

// Enqueue runs the job in the caller when runImmediately is set, otherwise
// publishes it for a worker.
func (r *Runner) Enqueue(ctx context.Context, name domainmoderation.JobName, payload any, runImmediately bool) (ports.QueuedJob, error) {
	if ctx == nil {
		return ports.QueuedJob{}, errors.New("context is required")
	}
	if _, err := domainmoderation.ParseJobName(string(name)); err != nil {
		return ports.QueuedJob{}, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return ports.QueuedJob{}, errs.Wrapf(err, "encode %s payload", name)
	}
	job := ports.QueuedJob{
		ID:         r.newID(),
		Name:       string(name),
		Payload:    raw,
		EnqueuedAt: r.now().UTC(),
	}

	if runImmediately {
		jobsEnqueued.WithLabelValues(job.Name, "immediate").Inc()
		job.Attempt = 1
		return job, r.Execute(ctx, job)
	}

	if r.queue == nil {
		return ports.QueuedJob{}, errors.New("task queue is required for deferred jobs")
	}
	if err := r.queue.Publish(ctx, job); err != nil {
		return ports.QueuedJob{}, errs.Wrapf(err, "publish %s job", name)
	}
	jobsEnqueued.WithLabelValues(job.Name, "deferred").Inc()
	return job, nil
}

// EnqueueBatch enqueues one comment job per payload and marks each as a batch
// action when there is more than one. Immediate batches run in order and stop
// at the first failure.
func (r *Runner) EnqueueBatch(ctx context.Context, name domainmoderation.JobName, payloads []domainmoderation.CommentActionPayload, runImmediately bool) ([]ports.QueuedJob, error) {
	if _, ok := domainmoderation.TransitionForJob(name); !ok {
		return nil, fmt.Errorf("%w: %q is not a comment job", domainmoderation.ErrUnknownJob, name)
	}

	isBatch := len(payloads) > 1
	jobs := make([]ports.QueuedJob, len(payloads))

	if runImmediately {
		for i, payload := range payloads {
			payload.IsBatchAction = isBatch
			job, err := r.Enqueue(ctx, name, payload, true)
			if err != nil {
				return jobs[:i], err
			}
			jobs[i] = job
		}
		return jobs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, payload := range payloads {
		payload.IsBatchAction = isBatch
		g.Go(func() error {
			job, err := r.Enqueue(gctx, name, payload, false)
			if err != nil {
				return err
			}
			jobs[i] = job
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Consume blocks, executing deliveries from the queue until ctx is done.
func (r *Runner) Consume(ctx context.Context) error {
	if r.queue == nil {
		return errors.New("task queue is required")
	}
	return r.queue.Consume(ctx, r.Execute)
}

// Execute runs one delivery. Failures the job cannot recover from by retrying
// (missing rows, unknown job, bad payload) come back marked errs.Permanent.
func (r *Runner) Execute(ctx context.Context, job ports.QueuedJob) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if r.svc == nil {
		return errors.New("moderation service is required")
	}

	ctx = logging.WithJob(ctx, job.ID, job.Name)
	started := time.Now()

	err := r.dispatch(ctx, job)
	jobDuration.WithLabelValues(job.Name).Observe(time.Since(started).Seconds())

	if err == nil {
		jobsExecuted.WithLabelValues(job.Name, "ok").Inc()
		logging.Debug(ctx, "job executed", slog.Int("attempt", job.Attempt))
		return nil
	}

	if isTerminal(err) {
		err = errs.Permanent(err)
		jobsExecuted.WithLabelValues(job.Name, "failed").Inc()
	} else {
		jobsExecuted.WithLabelValues(job.Name, "retry").Inc()
	}
	logging.Error(ctx, "job failed",
		slog.Int("attempt", job.Attempt),
		slog.Any("err", errs.Loggable(err)),
	)
	return err
}

func isTerminal(err error) bool {
	return errs.IsPermanent(err) ||
		ports.IsNotFound(err) ||
		errors.Is(err, domainmoderation.ErrUnknownJob) ||
		errors.Is(err, domainmoderation.ErrInvalidPayload) ||
		errors.Is(err, domainmoderation.ErrInvalidAction)
}

func (r *Runner) dispatch(ctx context.Context, job ports.QueuedJob) error {
	name, err := domainmoderation.ParseJobName(job.Name)
	if err != nil {
		return err
	}

	if t, ok := domainmoderation.TransitionForJob(name); ok {
		var p domainmoderation.CommentActionPayload
		if err := decodePayload(job.Payload, &p); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		return r.svc.Transition(ctx, t, moderation.ActionInput{
			CommentID:           p.CommentID,
			UserID:              p.UserID,
			IsBatchAction:       p.IsBatchAction,
			AutoConfirmDecision: p.AutoConfirmDecision,
		})
	}

	var p domainmoderation.TagPayload
	if err := decodePayload(job.Payload, &p); err != nil {
		return err
	}
	if err := p.Validate(name); err != nil {
		return err
	}
	input := moderation.TagInput{
		CommentID:       p.CommentID,
		TagID:           p.TagID,
		CommentScoreID:  p.CommentScoreID,
		AnnotationStart: p.AnnotationStart,
		AnnotationEnd:   p.AnnotationEnd,
		UserID:          p.UserID,
		IsBatchAction:   p.IsBatchAction,
	}

	switch name {
	case domainmoderation.JobTagComments:
		return r.svc.TagComment(ctx, input)
	case domainmoderation.JobTagCommentSummaryScores:
		return r.svc.TagCommentSummaryScore(ctx, input)
	case domainmoderation.JobConfirmCommentSummaryScore:
		return r.svc.ConfirmCommentSummaryScore(ctx, input)
	case domainmoderation.JobRejectCommentSummaryScore:
		return r.svc.RejectCommentSummaryScore(ctx, input)
	case domainmoderation.JobAddTag:
		return r.svc.AddTag(ctx, input)
	case domainmoderation.JobRemoveTag:
		return r.svc.RemoveTag(ctx, input)
	case domainmoderation.JobConfirmTag:
		return r.svc.ConfirmTag(ctx, input)
	case domainmoderation.JobRejectTag:
		return r.svc.RejectTag(ctx, input)
	case domainmoderation.JobResetTag:
		return r.svc.ResetTag(ctx, input)
	default:
		return fmt.Errorf("%w: %q", domainmoderation.ErrUnknownJob, name)
	}
}

func decodePayload(raw []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", domainmoderation.ErrInvalidPayload, err)
	}
	return nil
}
