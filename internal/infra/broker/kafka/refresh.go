package kafka

import (
	"context"

	"github.com/IBM/sarama"
)

// Deduper reports whether an event id was already handled by this consumer.
type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// RefreshHandler reloads local state when another instance publishes a
// booking change.
type RefreshHandler struct {
	Inbox   Deduper
	Refresh func(ctx context.Context) error
}

func (h RefreshHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	if id := header(msg, "event-id"); id != "" && h.Inbox != nil {
		seen, err := h.Inbox.Seen(ctx, id)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}
	return h.Refresh(ctx)
}
