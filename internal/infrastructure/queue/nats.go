package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"moderator/internal/bootstrap/logging"
	"moderator/internal/errs"
	"moderator/internal/ports"
)

type NATSConfig struct {
	URL        string
	Stream     string
	Subject    string
	Durable    string
	MaxDeliver int
	AckWait    time.Duration
}

// NATSQueue keeps deferred jobs in a JetStream work-queue stream. Workers
// share one durable queue subscription; the job id doubles as the JetStream
// message id so a republished job is deduplicated.
type NATSQueue struct {
	nc  *nats.Conn
	js  nats.JetStreamContext
	cfg NATSConfig
}

var _ ports.TaskQueue = (*NATSQueue)(nil)

func DialNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.MaxDeliver <= 0 {
		cfg.MaxDeliver = 5
	}
	if cfg.AckWait <= 0 {
		cfg.AckWait = 30 * time.Second
	}

	nc, err := nats.Connect(cfg.URL, nats.Name("moderator-queue"))
	if err != nil {
		return nil, errs.Wrapf(err, "connect nats %s", cfg.URL)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, errs.Wrap(err, "open jetstream")
	}

	if _, err := js.StreamInfo(cfg.Stream); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			nc.Close()
			return nil, errs.Wrapf(err, "lookup stream %s", cfg.Stream)
		}
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:      cfg.Stream,
			Subjects:  []string{cfg.Subject},
			Retention: nats.WorkQueuePolicy,
			Storage:   nats.FileStorage,
		}); err != nil {
			nc.Close()
			return nil, errs.Wrapf(err, "create stream %s", cfg.Stream)
		}
	}

	return &NATSQueue{nc: nc, js: js, cfg: cfg}, nil
}

func (q *NATSQueue) Publish(ctx context.Context, job ports.QueuedJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return errs.Wrap(err, "encode job")
	}
	if _, err := q.js.Publish(q.cfg.Subject, raw, nats.MsgId(job.ID), nats.Context(ctx)); err != nil {
		return errs.Wrapf(err, "publish job %s", job.ID)
	}
	return nil
}

// Consume acks on success, terminates on permanent failures and naks the rest
// so JetStream redelivers up to MaxDeliver times.
func (q *NATSQueue) Consume(ctx context.Context, handle ports.JobHandler) error {
	if handle == nil {
		return errors.New("job handler is required")
	}

	sub, err := q.js.QueueSubscribe(q.cfg.Subject, q.cfg.Durable, func(msg *nats.Msg) {
		q.handleMsg(ctx, msg, handle)
	},
		nats.Durable(q.cfg.Durable),
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.MaxDeliver(q.cfg.MaxDeliver),
		nats.AckWait(q.cfg.AckWait),
	)
	if err != nil {
		return errs.Wrapf(err, "subscribe %s", q.cfg.Subject)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return errs.Wrap(err, "drain subscription")
	}
	return nil
}

func (q *NATSQueue) handleMsg(ctx context.Context, msg *nats.Msg, handle ports.JobHandler) {
	var job ports.QueuedJob
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		logging.Error(ctx, "undecodable job message terminated",
			slog.String("component", "queue"),
			slog.Any("err", errs.Loggable(err)),
		)
		_ = msg.Term()
		deliveriesTotal.WithLabelValues("nats", "term").Inc()
		return
	}
	if meta, err := msg.Metadata(); err == nil {
		job.Attempt = int(meta.NumDelivered)
	}

	err := handle(ctx, job)
	switch {
	case err == nil:
		_ = msg.Ack()
		deliveriesTotal.WithLabelValues("nats", "ack").Inc()
	case errs.IsPermanent(err):
		_ = msg.Term()
		deliveriesTotal.WithLabelValues("nats", "term").Inc()
	default:
		_ = msg.Nak()
		deliveriesTotal.WithLabelValues("nats", "nak").Inc()
	}
}

func (q *NATSQueue) Close() {
	if q.nc != nil {
		q.nc.Close()
	}
}
