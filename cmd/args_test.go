package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderator/internal/bootstrap"
	"moderator/internal/bootstrap/config"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3", "4,5", " 6 "})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 4, 5, 6}, ids)

	_, err = parseIDs([]string{"0"})
	assert.Error(t, err)
	_, err = parseIDs([]string{"abc"})
	assert.Error(t, err)
	_, err = parseIDs([]string{","})
	assert.Error(t, err)
}

func TestParseScore(t *testing.T) {
	score, err := parseScore("3=0.92")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), score.TagID)
	assert.InDelta(t, 0.92, score.Score, 1e-9)
	assert.Nil(t, score.AnnotationStart)

	score, err = parseScore("4=0.1@0:17")
	require.NoError(t, err)
	require.NotNil(t, score.AnnotationStart)
	require.NotNil(t, score.AnnotationEnd)
	assert.Equal(t, 0, *score.AnnotationStart)
	assert.Equal(t, 17, *score.AnnotationEnd)

	for _, raw := range []string{"0.9", "x=0.9", "3=high", "3=0.9@5", "3=0.9@a:1"} {
		_, err := parseScore(raw)
		assert.Error(t, err, raw)
	}
}

func TestRequireDurableQueue(t *testing.T) {
	local := &bootstrap.App{Config: config.Config{Queue: config.QueueConfig{Driver: "local"}}}
	err := requireDurableQueue(local)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue.driver=nats")

	nats := &bootstrap.App{Config: config.Config{Queue: config.QueueConfig{Driver: "NATS"}}}
	assert.NoError(t, requireDurableQueue(nats))
}
