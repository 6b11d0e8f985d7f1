package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderator/internal/bootstrap/logging"
	"moderator/internal/domain/moderation"
	"moderator/internal/ports"
)

func TestEventSubject(t *testing.T) {
	got := EventSubject("moderation.changes", ports.ChangeEvent{Kind: ports.ChangeCategory, ID: 12})
	assert.Equal(t, "moderation.changes.category.12", got)
}

func TestLogSinkWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&buf, "info", "json"))

	err := LogSink{}.Publish(ctx, ports.ChangeEvent{
		Kind:     ports.ChangeArticle,
		ID:       7,
		Counters: moderation.Counters{All: 3, Moderated: 1},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"kind":"article"`)
	assert.Contains(t, buf.String(), `"id":7`)
}
