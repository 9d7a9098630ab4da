package booking

import (
	"context"
	"time"
)

// Cancellation is the append-only snapshot written before a booking is deleted.
type Cancellation struct {
	BookingID   BookingID
	Snapshot    *Booking
	CancelMonth string
	CancelledAt time.Time
}

type CancellationRepository interface {
	Append(ctx context.Context, c *Cancellation) error
	List(ctx context.Context) ([]*Cancellation, error)
}

// Cancel snapshots the booking; CancelMonth is the month of the check-in.
func (b *Booking) Cancel(now time.Time) *Cancellation {
	at := now.UTC()
	c := &Cancellation{
		BookingID:   b.ID,
		Snapshot:    b.Clone(),
		CancelMonth: b.Range.CheckIn.MonthKey(),
		CancelledAt: at,
	}
	if b.Range.CheckIn.IsZero() {
		c.CancelMonth = ""
	}
	b.Record(BookingCancelled{BookingID: b.ID, HouseID: b.HouseID, CancelMonth: c.CancelMonth, At: at})
	return c
}
