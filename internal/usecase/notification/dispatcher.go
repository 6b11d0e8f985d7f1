package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moderator/internal/bootstrap/logging"
	"moderator/internal/errs"
	"moderator/internal/ports"
)

// Comparator reports whether next carries nothing new compared to previous.
type Comparator func(previous ports.ChangeEvent, next ports.ChangeEvent) bool

// SameCounters treats two events as equal when counters and lastModeratedAt match.
func SameCounters(previous ports.ChangeEvent, next ports.ChangeEvent) bool {
	if previous.Counters != next.Counters {
		return false
	}
	switch {
	case previous.LastModeratedAt == nil && next.LastModeratedAt == nil:
		return true
	case previous.LastModeratedAt == nil || next.LastModeratedAt == nil:
		return false
	default:
		return previous.LastModeratedAt.Equal(*next.LastModeratedAt)
	}
}

// Dispatcher forwards aggregate changes to a sink, dropping repeats of the
// last event published for the same aggregate. The last event is kept in store.
type Dispatcher struct {
	sink  ports.ChangeSink
	store ports.Cache
	equal Comparator
	ttl   time.Duration
}

var _ ports.ChangeNotifier = (*Dispatcher)(nil)

// NewDispatcher builds a dispatcher. A nil equal falls back to SameCounters;
// a nil store disables suppression.
func NewDispatcher(sink ports.ChangeSink, store ports.Cache, equal Comparator) *Dispatcher {
	if equal == nil {
		equal = SameCounters
	}
	return &Dispatcher{
		sink:  sink,
		store: store,
		equal: equal,
		ttl:   24 * time.Hour,
	}
}

func (d *Dispatcher) ArticleChanged(ctx context.Context, article ports.Article) error {
	return d.dispatch(ctx, ports.ChangeEvent{
		Kind:            ports.ChangeArticle,
		ID:              article.ArticleID,
		Counters:        article.Counters,
		LastModeratedAt: article.LastModeratedAt,
	})
}

func (d *Dispatcher) CategoryChanged(ctx context.Context, category ports.Category) error {
	return d.dispatch(ctx, ports.ChangeEvent{
		Kind:     ports.ChangeCategory,
		ID:       category.CategoryID,
		Counters: category.Counters,
	})
}

func lastEventKey(kind ports.ChangeKind, id uint64) string {
	return fmt.Sprintf("notify:last:%s:%d", kind, id)
}

func (d *Dispatcher) dispatch(ctx context.Context, event ports.ChangeEvent) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if d.sink == nil {
		return errors.New("change sink is required")
	}

	key := lastEventKey(event.Kind, event.ID)
	if previous, ok := d.previous(ctx, key); ok && d.equal(previous, event) {
		changeEventsSuppressed.WithLabelValues(string(event.Kind)).Inc()
		return nil
	}

	if err := d.sink.Publish(ctx, event); err != nil {
		return errs.Wrapf(err, "publish %s %d change", event.Kind, event.ID)
	}
	changeEventsPublished.WithLabelValues(string(event.Kind)).Inc()

	d.remember(ctx, key, event)
	return nil
}

// previous treats any store failure as "nothing stored" so the event goes out.
func (d *Dispatcher) previous(ctx context.Context, key string) (ports.ChangeEvent, bool) {
	if d.store == nil {
		return ports.ChangeEvent{}, false
	}

	raw, found, err := d.store.Get(ctx, key)
	if err != nil {
		logging.Warn(ctx, "read last change event failed",
			slog.String("component", "notification"),
			slog.String("key", key),
			slog.Any("err", errs.Loggable(err)),
		)
		return ports.ChangeEvent{}, false
	}
	if !found {
		return ports.ChangeEvent{}, false
	}

	var event ports.ChangeEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return ports.ChangeEvent{}, false
	}
	return event, true
}

func (d *Dispatcher) remember(ctx context.Context, key string, event ports.ChangeEvent) {
	if d.store == nil {
		return
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := d.store.Set(ctx, key, string(raw), d.ttl); err != nil {
		logging.Warn(ctx, "store last change event failed",
			slog.String("component", "notification"),
			slog.String("key", key),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}
