package notify

import (
	"context"
	"log/slog"

	"moderator/internal/bootstrap/logging"
	"moderator/internal/ports"
)

// LogSink writes change events to the context logger.
type LogSink struct{}

var _ ports.ChangeSink = LogSink{}

func (LogSink) Publish(ctx context.Context, event ports.ChangeEvent) error {
	attrs := []slog.Attr{
		slog.String("component", "notify"),
		slog.String("kind", string(event.Kind)),
		slog.Uint64("id", event.ID),
		slog.Int64("all", event.Counters.All),
		slog.Int64("unmoderated", event.Counters.Unmoderated),
		slog.Int64("moderated", event.Counters.Moderated),
	}
	if event.LastModeratedAt != nil {
		attrs = append(attrs, slog.Time("last_moderated_at", *event.LastModeratedAt))
	}
	logging.Info(ctx, "aggregate changed", attrs...)
	return nil
}
