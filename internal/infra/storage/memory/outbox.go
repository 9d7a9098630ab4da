package memory

import (
	"context"
	"errors"
	"sync"

	appoutbox "guesthouse/internal/app/outbox"
	"guesthouse/internal/app/uow"
)

// Publisher delivers one event record, e.g. to Kafka.
type Publisher interface {
	PublishRecord(ctx context.Context, rec appoutbox.EventRecord) error
}

// Outbox buffers events until Flush. Records added inside a unit of work are
// buffered only once that unit commits. Without a publisher flushed events
// are dropped; records that fail to publish stay for the next flush.
type Outbox struct {
	mu        sync.Mutex
	records   []appoutbox.EventRecord
	publisher Publisher
	published int
}

func NewOutbox(publisher Publisher) *Outbox {
	return &Outbox{publisher: publisher}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	if uow.AfterCommit(ctx, func(context.Context) { o.enqueue(record) }) {
		return nil
	}
	o.enqueue(record)
	return nil
}

func (o *Outbox) enqueue(record appoutbox.EventRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.publisher == nil {
		o.published += len(o.records)
		o.records = nil
		return nil
	}
	var errs []error
	kept := o.records[:0]
	for _, rec := range o.records {
		if err := o.publisher.PublishRecord(ctx, rec); err != nil {
			errs = append(errs, err)
			kept = append(kept, rec)
			continue
		}
		o.published++
	}
	o.records = kept
	return errors.Join(errs...)
}

// Pending returns the number of buffered records.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.records)
}

func (o *Outbox) Published() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.published
}

var _ appoutbox.Outbox = (*Outbox)(nil)
