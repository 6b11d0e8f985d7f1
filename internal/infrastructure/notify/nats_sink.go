package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"moderator/internal/errs"
	"moderator/internal/ports"
)

// NATSSink publishes change events on core NATS under <subject>.<kind>.<id>
// so observers can subscribe to one aggregate or to a wildcard.
type NATSSink struct {
	nc      *nats.Conn
	subject string
}

var _ ports.ChangeSink = (*NATSSink)(nil)

func DialNATSSink(url string, subject string) (*NATSSink, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name("moderator-notify"))
	if err != nil {
		return nil, errs.Wrapf(err, "connect nats %s", url)
	}
	return &NATSSink{nc: nc, subject: subject}, nil
}

func EventSubject(prefix string, event ports.ChangeEvent) string {
	return fmt.Sprintf("%s.%s.%d", prefix, event.Kind, event.ID)
}

func (s *NATSSink) Publish(ctx context.Context, event ports.ChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "encode change event")
	}
	if err := s.nc.Publish(EventSubject(s.subject, event), raw); err != nil {
		return errs.Wrap(err, "publish change event")
	}
	return nil
}

func (s *NATSSink) Close() {
	if s.nc != nil {
		_ = s.nc.Drain()
	}
}
