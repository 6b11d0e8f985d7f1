package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/ports"
	"moderator/internal/usecase/moderation"
)

type call struct {
	method     string
	transition domainmoderation.Transition
	action     moderation.ActionInput
	tag        moderation.TagInput
}

type fakeModerator struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeModerator) record(c call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeModerator) Transition(_ context.Context, t domainmoderation.Transition, input moderation.ActionInput) error {
	return f.record(call{method: "Transition", transition: t, action: input})
}

func (f *fakeModerator) TagComment(_ context.Context, input moderation.TagInput) error {
	return f.record(call{method: "TagComment", tag: input})
}

func (f *fakeModerator) TagCommentSummaryScore(_ context.Context, input moderation.TagInput) error {
	return f.record(call{method: "TagCommentSummaryScore", tag: input})
}

func (f *fakeModerator) ConfirmCommentSummaryScore(_ context.Context, input moderation.TagInput) error {
	return f.record(call{method: "ConfirmCommentSummaryScore", tag: input})
}

func (f *fakeModerator) RejectCommentSummaryScore(_ context.Context, input moderation.TagInput) error {
	return f.record(call{method: "RejectCommentSummaryScore", tag: input})
}

func (f *fakeModerator) AddTag(_ context.Context, input moderation.TagInput) error {
	return f.record(call{method: "AddTag", tag: input})
}

func (f *fakeModerator) RemoveTag(_ context.Context, input moderation.TagInput) error {
	return f.record(call{method: "RemoveTag", tag: input})
}

func (f *fakeModerator) ConfirmTag(_ context.Context, input moderation.TagInput) error {
	return f.record(call{method: "ConfirmTag", tag: input})
}

func (f *fakeModerator) RejectTag(_ context.Context, input moderation.TagInput) error {
	return f.record(call{method: "RejectTag", tag: input})
}

func (f *fakeModerator) ResetTag(_ context.Context, input moderation.TagInput) error {
	return f.record(call{method: "ResetTag", tag: input})
}

type fakeQueue struct {
	mu        sync.Mutex
	published []ports.QueuedJob
}

func (q *fakeQueue) Publish(_ context.Context, job ports.QueuedJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, job)
	return nil
}

func (q *fakeQueue) Consume(ctx context.Context, handle ports.JobHandler) error {
	q.mu.Lock()
	jobs := append([]ports.QueuedJob(nil), q.published...)
	q.mu.Unlock()
	for _, job := range jobs {
		_ = handle(ctx, job)
	}
	return nil
}

func TestEnqueueImmediateRunsTransition(t *testing.T) {
	svc := &fakeModerator{}
	runner := NewRunner(svc, &fakeQueue{})
	userID := uint64(4)

	job, err := runner.Enqueue(context.Background(), domainmoderation.JobAcceptComments, domainmoderation.CommentActionPayload{
		CommentID: 10,
		UserID:    &userID,
	}, true)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)

	require.Len(t, svc.calls, 1)
	assert.Equal(t, domainmoderation.TransitionApprove, svc.calls[0].transition)
	assert.Equal(t, uint64(10), svc.calls[0].action.CommentID)
	require.NotNil(t, svc.calls[0].action.UserID)
	assert.Equal(t, userID, *svc.calls[0].action.UserID)
}

func TestEnqueueDeferredPublishes(t *testing.T) {
	svc := &fakeModerator{}
	queue := &fakeQueue{}
	runner := NewRunner(svc, queue)

	_, err := runner.Enqueue(context.Background(), domainmoderation.JobRejectTag, domainmoderation.TagPayload{
		CommentID:      1,
		CommentScoreID: 2,
	}, false)
	require.NoError(t, err)
	assert.Empty(t, svc.calls)
	require.Len(t, queue.published, 1)

	require.NoError(t, runner.Consume(context.Background()))
	require.Len(t, svc.calls, 1)
	assert.Equal(t, "RejectTag", svc.calls[0].method)
	assert.Equal(t, uint64(2), svc.calls[0].tag.CommentScoreID)
}

func TestEnqueueBatchMarksBatchAction(t *testing.T) {
	queue := &fakeQueue{}
	runner := NewRunner(&fakeModerator{}, queue)

	payloads := []domainmoderation.CommentActionPayload{{CommentID: 1}, {CommentID: 2}, {CommentID: 3}}
	jobs, err := runner.EnqueueBatch(context.Background(), domainmoderation.JobDeferComments, payloads, false)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	require.Len(t, queue.published, 3)

	for _, job := range queue.published {
		var p domainmoderation.CommentActionPayload
		require.NoError(t, json.Unmarshal(job.Payload, &p))
		assert.True(t, p.IsBatchAction)
	}

	svc := &fakeModerator{}
	runner = NewRunner(svc, queue)
	_, err = runner.EnqueueBatch(context.Background(), domainmoderation.JobDeferComments, payloads[:1], true)
	require.NoError(t, err)
	require.Len(t, svc.calls, 1)
	assert.False(t, svc.calls[0].action.IsBatchAction)
}

func TestEnqueueBatchRejectsTagJobs(t *testing.T) {
	runner := NewRunner(&fakeModerator{}, &fakeQueue{})

	_, err := runner.EnqueueBatch(context.Background(), domainmoderation.JobAddTag, nil, false)
	require.ErrorIs(t, err, domainmoderation.ErrUnknownJob)
}

func TestExecuteDispatchesEveryTagJob(t *testing.T) {
	want := map[domainmoderation.JobName]string{
		domainmoderation.JobTagComments:                "TagComment",
		domainmoderation.JobTagCommentSummaryScores:    "TagCommentSummaryScore",
		domainmoderation.JobConfirmCommentSummaryScore: "ConfirmCommentSummaryScore",
		domainmoderation.JobRejectCommentSummaryScore:  "RejectCommentSummaryScore",
		domainmoderation.JobAddTag:                     "AddTag",
		domainmoderation.JobRemoveTag:                  "RemoveTag",
		domainmoderation.JobConfirmTag:                 "ConfirmTag",
		domainmoderation.JobRejectTag:                  "RejectTag",
		domainmoderation.JobResetTag:                   "ResetTag",
	}

	for name, method := range want {
		t.Run(string(name), func(t *testing.T) {
			svc := &fakeModerator{}
			runner := NewRunner(svc, nil)
			raw, err := json.Marshal(domainmoderation.TagPayload{CommentID: 1, TagID: 2, CommentScoreID: 3})
			require.NoError(t, err)

			require.NoError(t, runner.Execute(context.Background(), ports.QueuedJob{ID: "j", Name: string(name), Payload: raw}))
			require.Len(t, svc.calls, 1)
			assert.Equal(t, method, svc.calls[0].method)
		})
	}
}

func TestExecuteClassifiesPermanentFailures(t *testing.T) {
	tests := []struct {
		name      string
		job       ports.QueuedJob
		svcErr    error
		permanent bool
	}{
		{
			name:      "unknown job",
			job:       ports.QueuedJob{Name: "launchRockets", Payload: []byte(`{}`)},
			permanent: true,
		},
		{
			name:      "bad payload",
			job:       ports.QueuedJob{Name: "acceptComments", Payload: []byte(`{"commentId":"x"}`)},
			permanent: true,
		},
		{
			name:      "missing comment id",
			job:       ports.QueuedJob{Name: "acceptComments", Payload: []byte(`{}`)},
			permanent: true,
		},
		{
			name:      "comment not found",
			job:       ports.QueuedJob{Name: "rejectComments", Payload: []byte(`{"commentId":1}`)},
			svcErr:    ports.ErrCommentNotFound,
			permanent: true,
		},
		{
			name:      "user not found",
			job:       ports.QueuedJob{Name: "rejectComments", Payload: []byte(`{"commentId":1,"userId":7}`)},
			svcErr:    errs.Wrap(ports.ErrUserNotFound, "resolve user 7"),
			permanent: true,
		},
		{
			name:      "transient storage error",
			job:       ports.QueuedJob{Name: "rejectComments", Payload: []byte(`{"commentId":1}`)},
			svcErr:    errors.New("database is locked"),
			permanent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(&fakeModerator{err: tt.svcErr}, nil)
			err := runner.Execute(context.Background(), tt.job)
			require.Error(t, err)
			assert.Equal(t, tt.permanent, errs.IsPermanent(err))
		})
	}
}
