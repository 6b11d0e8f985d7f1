package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderator/internal/domain/moderation"
	"moderator/internal/ports"
)

type memoryStore struct {
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value string, _ time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

type recordingSink struct {
	events []ports.ChangeEvent
	err    error
}

func (s *recordingSink) Publish(_ context.Context, event ports.ChangeEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func TestDispatcherSuppressesRepeats(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, newMemoryStore(), nil)
	ctx := context.Background()

	article := ports.Article{ArticleID: 3, Counters: moderation.Counters{All: 2}}
	require.NoError(t, d.ArticleChanged(ctx, article))
	require.NoError(t, d.ArticleChanged(ctx, article))
	assert.Len(t, sink.events, 1)

	article.Counters.Moderated = 1
	require.NoError(t, d.ArticleChanged(ctx, article))
	require.Len(t, sink.events, 2)
	assert.Equal(t, int64(1), sink.events[1].Counters.Moderated)
	assert.Equal(t, ports.ChangeArticle, sink.events[1].Kind)
}

func TestDispatcherKeysByKindAndID(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, newMemoryStore(), nil)
	ctx := context.Background()

	require.NoError(t, d.ArticleChanged(ctx, ports.Article{ArticleID: 1}))
	require.NoError(t, d.CategoryChanged(ctx, ports.Category{CategoryID: 1}))
	require.NoError(t, d.ArticleChanged(ctx, ports.Article{ArticleID: 2}))
	assert.Len(t, sink.events, 3)
}

func TestDispatcherUsesInjectedComparator(t *testing.T) {
	sink := &recordingSink{}
	never := func(ports.ChangeEvent, ports.ChangeEvent) bool { return false }
	d := NewDispatcher(sink, newMemoryStore(), never)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, d.CategoryChanged(ctx, ports.Category{CategoryID: 9}))
	}
	assert.Len(t, sink.events, 3)
}

func TestDispatcherDoesNotRememberFailedPublish(t *testing.T) {
	boom := errors.New("sink down")
	sink := &recordingSink{err: boom}
	d := NewDispatcher(sink, newMemoryStore(), nil)
	ctx := context.Background()

	err := d.ArticleChanged(ctx, ports.Article{ArticleID: 5})
	require.ErrorIs(t, err, boom)

	sink.err = nil
	require.NoError(t, d.ArticleChanged(ctx, ports.Article{ArticleID: 5}))
	assert.Len(t, sink.events, 1)
}

func TestSameCountersComparesLastModeratedAt(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	later := at.Add(time.Second)

	assert.True(t, SameCounters(ports.ChangeEvent{}, ports.ChangeEvent{}))
	assert.False(t, SameCounters(ports.ChangeEvent{LastModeratedAt: &at}, ports.ChangeEvent{}))
	assert.True(t, SameCounters(ports.ChangeEvent{LastModeratedAt: &at}, ports.ChangeEvent{LastModeratedAt: &at}))
	assert.False(t, SameCounters(ports.ChangeEvent{LastModeratedAt: &at}, ports.ChangeEvent{LastModeratedAt: &later}))
}
