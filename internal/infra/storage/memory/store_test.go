package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse/internal/app/middleware"
	appoutbox "guesthouse/internal/app/outbox"
	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
)

func blackout(t *testing.T, id string) *domainbooking.Booking {
	t.Helper()
	r, err := daterange.Parse("2024-05-01", "2024-05-03")
	require.NoError(t, err)
	b, err := domainbooking.NewBlackout(domainbooking.BlackoutParams{ID: domainbooking.BookingID(id), HouseID: "house1", Range: r, Now: time.Now()})
	require.NoError(t, err)
	return b
}

func TestUnitStagesUntilCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Bookings().Save(ctx, blackout(t, "b1")))

	got, err := unit.Bookings().ByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Empty(t, store.Export().Bookings, "nothing visible before commit")

	require.NoError(t, unit.Commit(ctx))
	assert.Len(t, store.Export().Bookings, 1)
	assert.ErrorIs(t, unit.Commit(ctx), ErrUnitFinished)
}

func TestRollbackDiscards(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	unit, _ := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, unit.Contacts().Save(ctx, &domaincontacts.Contact{ID: "c1", Name: "A"}))
	require.NoError(t, unit.Rollback(ctx))
	assert.Empty(t, store.Export().Contacts)
}

func TestDeleteAndCancellations(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.Load(Data{Bookings: []*domainbooking.Booking{blackout(t, "b1"), blackout(t, "b2")}})

	unit, _ := store.Begin(ctx, uow.TxOptions{})
	b, err := unit.Bookings().ByID(ctx, "b1")
	require.NoError(t, err)
	require.NoError(t, unit.Cancellations().Append(ctx, b.Cancel(time.Now())))
	require.NoError(t, unit.Bookings().Delete(ctx, "b1"))
	assert.ErrorIs(t, unit.Bookings().Delete(ctx, "b1"), domainbooking.ErrBookingNotFound)

	list, err := unit.Bookings().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domainbooking.BookingID("b2"), list[0].ID)
	require.NoError(t, unit.Commit(ctx))

	data := store.Export()
	assert.Len(t, data.Bookings, 1)
	require.Len(t, data.Cancellations, 1)
	assert.Equal(t, "2024-05", data.Cancellations[0].CancelMonth)
}

func TestReadOnlyUnitRejectsWrites(t *testing.T) {
	ctx := context.Background()
	unit, _ := NewStore().Begin(ctx, uow.TxOptions{ReadOnly: true})
	assert.ErrorIs(t, unit.Bookings().Save(ctx, blackout(t, "b1")), ErrReadOnly)
	assert.ErrorIs(t, unit.Rates().SaveRates(ctx, domainpricing.RateTable{}), ErrReadOnly)
}

func TestRatesAndCommitHooks(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	var seen []Data
	store.OnCommit(func(_ context.Context, d Data) error {
		seen = append(seen, d)
		return nil
	})

	unit, _ := store.Begin(ctx, uow.TxOptions{})
	rates, err := unit.Rates().Rates(ctx)
	require.NoError(t, err)
	assert.Nil(t, rates)

	table := domainpricing.RateTable{}
	table.Set("house1", domainpricing.Mon, -1)
	assert.ErrorIs(t, unit.Rates().SaveRates(ctx, table), domainpricing.ErrNegativeRate)
	table.Set("house1", domainpricing.Mon, 9000)
	require.NoError(t, unit.Rates().SaveRates(ctx, table))
	require.NoError(t, unit.Commit(ctx))

	require.Len(t, seen, 1)
	rate, ok := seen[0].Rates.Rate("house1", domainpricing.Mon)
	assert.True(t, ok)
	assert.Equal(t, int64(9000), rate)
}

func TestCommitHookFailures(t *testing.T) {
	errDisk := errors.New("disk full")
	errIndex := errors.New("index down")

	cases := []struct {
		name      string
		before    []CommitHook
		after     []CommitHook
		wantErrs  []error
		applied   bool
		afterRuns int
	}{
		{
			name:     "failed durable write keeps old state",
			before:   []CommitHook{func(context.Context, Data) error { return errDisk }},
			after:    []CommitHook{func(context.Context, Data) error { return nil }},
			wantErrs: []error{errDisk},
		},
		{
			name: "every after hook runs",
			after: []CommitHook{
				func(context.Context, Data) error { return errIndex },
				func(context.Context, Data) error { return nil },
				func(context.Context, Data) error { return errDisk },
			},
			wantErrs:  []error{errIndex, errDisk},
			applied:   true,
			afterRuns: 3,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewStore()
			seed, _ := store.Begin(ctx, uow.TxOptions{})
			require.NoError(t, seed.Bookings().Save(ctx, blackout(t, "b0")))
			require.NoError(t, seed.Commit(ctx))

			var prospective []Data
			for _, hook := range tc.before {
				store.BeforeCommit(func(ctx context.Context, d Data) error {
					prospective = append(prospective, d)
					return hook(ctx, d)
				})
			}
			runs := 0
			for _, hook := range tc.after {
				store.OnCommit(func(ctx context.Context, d Data) error {
					runs++
					return hook(ctx, d)
				})
			}

			unit, _ := store.Begin(ctx, uow.TxOptions{})
			require.NoError(t, unit.Bookings().Save(ctx, blackout(t, "b1")))
			require.NoError(t, unit.Bookings().Delete(ctx, "b0"))
			err := unit.Commit(ctx)
			for _, want := range tc.wantErrs {
				assert.ErrorIs(t, err, want)
			}

			ids := map[domainbooking.BookingID]bool{}
			for _, b := range store.Export().Bookings {
				ids[b.ID] = true
			}
			if tc.applied {
				assert.Equal(t, map[domainbooking.BookingID]bool{"b1": true}, ids)
			} else {
				assert.Equal(t, map[domainbooking.BookingID]bool{"b0": true}, ids)
			}
			assert.Equal(t, tc.afterRuns, runs)
			for _, d := range prospective {
				require.Len(t, d.Bookings, 1, "durable hooks see the contents being committed")
				assert.Equal(t, domainbooking.BookingID("b1"), d.Bookings[0].ID)
			}
		})
	}
}

func TestSyncHandsCurrentContentsToDurableHooks(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	var got []Data
	store.BeforeCommit(func(_ context.Context, d Data) error {
		got = append(got, d)
		return nil
	})
	unit, _ := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, unit.Bookings().Save(ctx, blackout(t, "b1")))
	require.NoError(t, unit.Commit(ctx))
	require.NoError(t, store.Sync(ctx))

	require.Len(t, got, 2)
	assert.Len(t, got[1].Bookings, 1)
}

type flakyPublisher struct {
	fail bool
	got  []string
}

func (p *flakyPublisher) PublishRecord(_ context.Context, rec appoutbox.EventRecord) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.got = append(p.got, rec.Name)
	return nil
}

func TestOutboxKeepsFailedRecords(t *testing.T) {
	ctx := context.Background()
	pub := &flakyPublisher{fail: true}
	box := NewOutbox(pub)
	require.NoError(t, box.Add(ctx, appoutbox.EventRecord{ID: "1", Name: "booking.saved"}))

	assert.Error(t, box.Flush(ctx))
	assert.Equal(t, 1, box.Pending())

	pub.fail = false
	require.NoError(t, box.Flush(ctx))
	assert.Zero(t, box.Pending())
	assert.Equal(t, 1, box.Published())
	assert.Equal(t, []string{"booking.saved"}, pub.got)
}

func TestOutboxWaitsForCommit(t *testing.T) {
	pub := &flakyPublisher{}
	box := NewOutbox(pub)

	ctx, runAfter := uow.CollectAfterCommit(context.Background())
	require.NoError(t, box.Add(ctx, appoutbox.EventRecord{ID: "1", Name: "booking.saved"}))
	assert.Zero(t, box.Pending(), "held until commit")

	require.NoError(t, box.Flush(ctx))
	assert.Empty(t, pub.got)

	runAfter(context.Background())
	assert.Equal(t, 1, box.Pending())
	require.NoError(t, box.Flush(context.Background()))
	assert.Equal(t, []string{"booking.saved"}, pub.got)
}

func TestIdempotencyStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore(time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, middleware.IdempotencyRecord{Key: "k", OccurredAt: now}))
	_, found, _ := store.Get(ctx, "k")
	assert.True(t, found)

	now = now.Add(2 * time.Hour)
	_, found, _ = store.Get(ctx, "k")
	assert.False(t, found)
}
