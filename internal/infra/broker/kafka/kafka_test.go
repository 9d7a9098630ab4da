package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerPublish(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"ok":true}` {
			return errors.New("unexpected payload")
		}
		return nil
	})
	p := &Producer{sync: mock}

	err := p.Publish(context.Background(), "booking.events.v1", "b1", []byte(`{"ok":true}`), map[string]string{"b": "2", "a": "1"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducerPublishHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Producer{}
	assert.ErrorIs(t, p.Publish(ctx, "t", "k", nil, nil), context.Canceled)
}

func TestRecordHeadersSorted(t *testing.T) {
	hs := recordHeaders(map[string]string{"z": "1", "a": "2"})
	require.Len(t, hs, 2)
	assert.Equal(t, "a", string(hs[0].Key))
	assert.Equal(t, "z", string(hs[1].Key))
}

type memoryInbox map[string]bool

func (m memoryInbox) Seen(_ context.Context, id string) (bool, error) {
	if m[id] {
		return true, nil
	}
	m[id] = true
	return false, nil
}

func TestRefreshHandlerSkipsDuplicates(t *testing.T) {
	refreshes := 0
	h := RefreshHandler{
		Inbox:   memoryInbox{},
		Refresh: func(context.Context) error { refreshes++; return nil },
	}
	msg := &sarama.ConsumerMessage{Headers: []*sarama.RecordHeader{{Key: []byte("event-id"), Value: []byte("e1")}}}

	require.NoError(t, h.Handle(context.Background(), msg))
	require.NoError(t, h.Handle(context.Background(), msg))
	assert.Equal(t, 1, refreshes)

	require.NoError(t, h.Handle(context.Background(), &sarama.ConsumerMessage{}))
	assert.Equal(t, 2, refreshes, "messages without an id always refresh")
}
