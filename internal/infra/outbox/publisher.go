package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	appoutbox "guesthouse/internal/app/outbox"
)

// Producer sends one message to a broker topic.
type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Publisher wraps event records in a CloudEvents envelope and routes them
// to "<prefix><aggregate kind>.events.v1".
type Publisher struct {
	Producer    Producer
	TopicPrefix string
	Source      string
	IDs         func() string
}

func (p Publisher) PublishRecord(ctx context.Context, rec appoutbox.EventRecord) error {
	payload, headers, err := p.envelope(rec)
	if err != nil {
		return err
	}
	return p.Producer.Publish(ctx, p.TopicFor(rec.Name), rec.Aggregate, payload, headers)
}

func (p Publisher) envelope(rec appoutbox.EventRecord) ([]byte, map[string]string, error) {
	data := map[string]any{}
	if len(rec.Payload) > 0 {
		if err := json.Unmarshal(rec.Payload, &data); err != nil {
			return nil, nil, err
		}
	}
	newID := p.IDs
	if newID == nil {
		newID = uuid.NewString
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              newID(),
		"type":            rec.Name + ".v1",
		"source":          p.source(),
		"subject":         rec.Aggregate,
		"time":            rec.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	if trace, ok := rec.Headers["traceparent"]; ok {
		evt["traceparent"] = trace
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := make(map[string]string, len(rec.Headers)+2)
	for k, v := range rec.Headers {
		headers[k] = v
	}
	headers["content-type"] = "application/cloudevents+json"
	headers["event-id"] = rec.ID
	return payload, headers, nil
}

func (p Publisher) TopicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return p.TopicPrefix + base + ".events.v1"
}

func (p Publisher) source() string {
	if p.Source != "" {
		return p.Source
	}
	return "app://guesthouse"
}

// LogProducer stands in for a broker when none is configured.
type LogProducer struct {
	Logger *slog.Logger
}

func (l LogProducer) Publish(ctx context.Context, topic string, key string, payload []byte, _ map[string]string) error {
	log := l.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "event published", "topic", topic, "key", key, "bytes", len(payload))
	return nil
}
