package firestore

import (
	"context"
	"testing"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/infra/records"
)

func TestParseRatesSkipsMetadata(t *testing.T) {
	rates, err := parseRates(map[string]any{
		"_type":     ratesType,
		"updatedAt": time.Now(),
		"house1":    map[string]any{"mon": int64(13000), "sat": float64(16000)},
		"house2":    "garbage",
	})
	require.NoError(t, err)
	assert.Equal(t, records.Rates{"house1": {"mon": 13000, "sat": 16000}}, rates)

	_, err = parseRates(map[string]any{"house1": map[string]any{"mon": "a lot"}})
	assert.Error(t, err)
}

func TestRateFieldsTagged(t *testing.T) {
	fields := rateFields(records.Rates{"house3": {"fri": 6500}})
	assert.Equal(t, ratesType, fields["_type"])
	assert.Equal(t, gcfirestore.ServerTimestamp, fields["updatedAt"])
	assert.Equal(t, map[string]any{"fri": int64(6500)}, fields["house3"])
}

func TestBookingFields(t *testing.T) {
	price := int64(19500)
	fields := bookingFields(records.Booking{
		HouseID: "house3", CheckIn: "2024-03-01", CheckOut: "2024-03-04", Status: "booked",
		ContactID: "c1", Guests: 2, Price: &price, Currency: "UAH",
		Comments: []records.Comment{{ID: "k", Text: "hi", Date: "2024-02-01T00:00:00.000Z"}},
	})
	assert.Equal(t, int64(19500), fields["price"])
	assert.Equal(t, gcfirestore.ServerTimestamp, fields["updatedAt"])
	assert.NotContains(t, fields, "createdAt")
	assert.Equal(t, []map[string]any{{"id": "k", "text": "hi", "date": "2024-02-01T00:00:00.000Z"}}, fields["comments"])

	blank := bookingFields(records.Booking{Status: "unavailable"})
	assert.Nil(t, blank["price"])
	assert.NotContains(t, blank, "currency")
}

func TestCancellationFields(t *testing.T) {
	fields := cancellationFields(records.Cancellation{
		Booking:        records.Booking{HouseID: "house1", CheckIn: "2024-07-01", CheckOut: "2024-07-02"},
		BookingID:      "b1",
		CancelMonth:    "2024-07",
		CancelledAtISO: "2024-06-01T00:00:00.000Z",
	})
	assert.Equal(t, "b1", fields["bookingId"])
	assert.Equal(t, "2024-07", fields["cancelMonth"])
	assert.Equal(t, gcfirestore.ServerTimestamp, fields["cancelledAt"])
	assert.Equal(t, "house1", fields["houseId"])
}

func TestReservedIDs(t *testing.T) {
	assert.True(t, reserved(ratesDocumentID))
	assert.False(t, reserved("b-1"))
}

func TestIsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.False(t, isCanceled(ctx, status.Error(codes.Unavailable, "down")))
	assert.True(t, isCanceled(ctx, status.Error(codes.Canceled, "stop")))
	cancel()
	assert.True(t, isCanceled(ctx, status.Error(codes.Unavailable, "down")))
}

func TestUnitStagesWrites(t *testing.T) {
	ctx := context.Background()
	unit, err := Factory{Currency: "UAH"}.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)

	rng, err := daterange.Parse("2024-05-01", "2024-05-03")
	require.NoError(t, err)
	b, err := domainbooking.NewBlackout(domainbooking.BlackoutParams{ID: "b1", HouseID: "house1", Range: rng, Now: time.Now()})
	require.NoError(t, err)
	require.NoError(t, unit.Bookings().Save(ctx, b))
	require.NoError(t, unit.Contacts().Save(ctx, &domaincontacts.Contact{ID: "c1", Name: "Oksana"}))
	table := domainpricing.RateTable{}
	table.Set("house1", domainpricing.Mon, 100)
	require.NoError(t, unit.Rates().SaveRates(ctx, table))

	got, err := unit.Bookings().ByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	c, err := unit.Contacts().ByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Oksana", c.Name)
	rates, err := unit.Rates().Rates(ctx)
	require.NoError(t, err)
	assert.Equal(t, table, rates)

	require.NoError(t, unit.Bookings().Delete(ctx, "b1"))
	_, err = unit.Bookings().ByID(ctx, "b1")
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)

	require.NoError(t, unit.Rollback(ctx))
	assert.ErrorIs(t, unit.Bookings().Save(ctx, b), ErrUnitFinished)
}

func TestReadOnlyUnit(t *testing.T) {
	ctx := context.Background()
	unit, err := Factory{}.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	assert.ErrorIs(t, unit.Contacts().Save(ctx, &domaincontacts.Contact{ID: "c"}), ErrReadOnly)
	assert.NoError(t, unit.Commit(ctx))
	assert.ErrorIs(t, unit.Commit(ctx), ErrUnitFinished)
}
