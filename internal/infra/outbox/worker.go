package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	appoutbox "guesthouse/internal/app/outbox"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// Queue is the claim/ack side of a durable outbox.
type Queue interface {
	Claim(ctx context.Context, workerID string, staleAfter time.Duration) (*EventDocument, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

type RecordPublisher interface {
	PublishRecord(ctx context.Context, rec appoutbox.EventRecord) error
}

type Observer interface {
	ObserveOutbox(err error)
}

// Worker drains the queue on a ticker, retrying failures with Backoff.
type Worker struct {
	Queue      Queue
	Publisher  RecordPublisher
	Interval   time.Duration
	Backoff    []time.Duration
	StaleAfter time.Duration
	BatchSize  int
	ID         string
	Metrics    Observer
	Logger     *slog.Logger
	Now        func() time.Time
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Publisher == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger().ErrorContext(ctx, "outbox: drain failed", "err", err)
			}
		}
	}
}

// Drain publishes up to BatchSize due events and reports how many were sent.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	sent := 0
	for range w.batchSize() {
		doc, err := w.Queue.Claim(ctx, w.ID, w.staleAfter())
		if err != nil {
			return sent, err
		}
		if doc == nil {
			return sent, nil
		}
		if err := w.Publisher.PublishRecord(ctx, doc.Record()); err != nil {
			w.observe(err)
			w.logger().WarnContext(ctx, "outbox: publish failed", "event", doc.Name, "id", doc.ID, "attempts", doc.Attempts+1, "err", err)
			if markErr := w.Queue.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error()); markErr != nil {
				return sent, markErr
			}
			continue
		}
		w.observe(nil)
		if err := w.Queue.MarkSent(ctx, doc.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (w *Worker) observe(err error) {
	if w.Metrics != nil {
		w.Metrics.ObserveOutbox(err)
	}
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) staleAfter() time.Duration {
	if w.StaleAfter <= 0 {
		return time.Minute
	}
	return w.StaleAfter
}

func (w *Worker) batchSize() int {
	if w.BatchSize <= 0 {
		return 50
	}
	return w.BatchSize
}

func (w *Worker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *Worker) nextRetry(attempts int) time.Time {
	if attempts < len(w.Backoff) {
		return w.now().Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return w.now().Add(w.Backoff[len(w.Backoff)-1])
	}
	return w.now().Add(5 * time.Second)
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
