package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "guesthouse/internal/app/outbox"
)

type fakeQueue struct {
	mu     sync.Mutex
	docs   []*EventDocument
	sent   []string
	failed map[string]time.Time
}

func (q *fakeQueue) Claim(_ context.Context, workerID string, _ time.Duration) (*EventDocument, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, d := range q.docs {
		if d.State == stateNew {
			d.State = stateClaimed
			d.ClaimedBy = workerID
			return d, nil
		}
	}
	return nil, nil
}

func (q *fakeQueue) MarkSent(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(_ context.Context, id string, next time.Time, _ string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failed == nil {
		q.failed = map[string]time.Time{}
	}
	q.failed[id] = next
	return nil
}

type message struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	messages []message
	failKey  string
}

func (p *fakeProducer) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if key == p.failKey {
		return errors.New("broker down")
	}
	p.messages = append(p.messages, message{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

type countingObserver struct{ ok, failed int }

func (c *countingObserver) ObserveOutbox(err error) {
	if err != nil {
		c.failed++
		return
	}
	c.ok++
}

func event(id, aggregate string) *EventDocument {
	return &EventDocument{
		ID:         id,
		Name:       "booking.saved",
		Payload:    []byte(`{"booking_id":"` + aggregate + `"}`),
		Aggregate:  aggregate,
		OccurredAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Headers:    map[string]string{"source": "guesthouse"},
		State:      stateNew,
	}
}

func TestWorkerDrainPublishesAndRetries(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	queue := &fakeQueue{docs: []*EventDocument{event("e1", "b1"), event("e2", "b2")}}
	producer := &fakeProducer{failKey: "b2"}
	obs := &countingObserver{}
	w := &Worker{
		Queue:     queue,
		Publisher: Publisher{Producer: producer, TopicPrefix: "gh.", IDs: func() string { return "ce-1" }},
		Backoff:   []time.Duration{time.Second, time.Minute},
		Metrics:   obs,
		ID:        "w1",
		Now:       func() time.Time { return now },
	}

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"e1"}, queue.sent)
	assert.Equal(t, now.Add(time.Second), queue.failed["e2"])
	assert.Equal(t, 1, obs.ok)
	assert.Equal(t, 1, obs.failed)

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "gh.booking.events.v1", msg.topic)
	assert.Equal(t, "b1", msg.key)
	assert.Equal(t, "application/cloudevents+json", msg.headers["content-type"])
	assert.Equal(t, "e1", msg.headers["event-id"])
	assert.Equal(t, "guesthouse", msg.headers["source"])

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &envelope))
	assert.Equal(t, "booking.saved.v1", envelope["type"])
	assert.Equal(t, "ce-1", envelope["id"])
	assert.Equal(t, map[string]any{"booking_id": "b1"}, envelope["data"])
}

func TestWorkerNextRetryClampsToLastBackoff(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &Worker{Backoff: []time.Duration{time.Second, time.Minute}, Now: func() time.Time { return now }}
	assert.Equal(t, now.Add(time.Minute), w.nextRetry(5))

	w.Backoff = nil
	assert.Equal(t, now.Add(5*time.Second), w.nextRetry(0))
}

func TestWorkerRunRequiresDependencies(t *testing.T) {
	err := (&Worker{}).Run(context.Background())
	assert.ErrorIs(t, err, ErrWorkerNotConfigured)
}

func TestPublisherRejectsNonJSONPayload(t *testing.T) {
	p := Publisher{Producer: &fakeProducer{}}
	err := p.PublishRecord(context.Background(), appoutbox.EventRecord{Name: "booking.saved", Payload: []byte("nope")})
	assert.Error(t, err)
}

func TestTopicFor(t *testing.T) {
	cases := map[string]string{
		"booking.saved":     "booking.events.v1",
		"booking.cancelled": "booking.events.v1",
		"contact":           "contact.events.v1",
	}
	for name, want := range cases {
		assert.Equal(t, want, Publisher{}.TopicFor(name), name)
	}
}
