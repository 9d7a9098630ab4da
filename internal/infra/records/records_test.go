package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "guesthouse/internal/domain/booking"
	domainpricing "guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

func TestBookingRecordKeepsFields(t *testing.T) {
	rng, err := daterange.Parse("2024-06-10", "2024-06-12")
	require.NoError(t, err)
	price := money.UAH(14000)
	at := time.Date(2024, 6, 1, 8, 30, 0, 123000000, time.UTC)
	b, err := domainbooking.NewStay(domainbooking.StayParams{
		ID: "b1", HouseID: "house2", Range: rng, Status: domainbooking.StatusPending,
		ContactID: "c9", Guests: 4, Price: &price, PriceManual: true, Notes: "dog", Now: at,
	})
	require.NoError(t, err)
	_, err = b.AddComment("k1", "paid half", at)
	require.NoError(t, err)

	rec := FromBooking(b)
	assert.Equal(t, "2024-06-01T08:30:00.123Z", rec.Comments[0].Date)

	back, err := rec.ToBooking("UAH")
	require.NoError(t, err)
	assert.Equal(t, b.Range, back.Range)
	assert.Equal(t, domainbooking.StatusPending, back.Status)
	assert.Equal(t, b.Party, back.Party)
	assert.Equal(t, price, *back.Price)
	assert.True(t, back.PriceManual)
	assert.Equal(t, at, back.Comments[0].At)
}

func TestToBookingDefaults(t *testing.T) {
	amount := int64(5000)
	rec := Booking{ID: "x", HouseID: "house1", CheckIn: "2024-01-01", CheckOut: "2024-01-03", Status: "unavailable", ContactID: "ignored", Price: &amount}
	b, err := rec.ToBooking("uah")
	require.NoError(t, err)
	assert.Nil(t, b.Party, "blackouts carry no party")
	assert.Equal(t, "UAH", b.Price.Currency)

	_, err = Booking{ID: "y", CheckIn: "2024-01-03", CheckOut: "2024-01-01", Status: "booked"}.ToBooking("UAH")
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = Booking{ID: "z", CheckIn: "2024-01-01", CheckOut: "2024-01-02", Status: "maybe"}.ToBooking("UAH")
	assert.ErrorIs(t, err, domainbooking.ErrInvalidStatus)
}

func TestCancellationFallbacks(t *testing.T) {
	rec := Cancellation{
		Booking:        Booking{ID: "b7", HouseID: "house1", CheckIn: "2024-09-03", CheckOut: "2024-09-04", Status: "unavailable"},
		CancelledAtISO: "2024-08-01T10:00:00.000Z",
	}
	c, err := rec.ToCancellation("UAH")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.BookingID("b7"), c.BookingID)
	assert.Equal(t, "2024-09", c.CancelMonth)
	assert.Equal(t, time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC), c.CancelledAt)
}

func TestRatesDropUnknownDays(t *testing.T) {
	table := Rates{"house1": {"mon": 100, "funday": 1}}.ToRateTable()
	rate, ok := table.Rate("house1", domainpricing.Mon)
	assert.True(t, ok)
	assert.Equal(t, int64(100), rate)
	assert.Len(t, table["house1"], 1)

	assert.Nil(t, Rates(nil).ToRateTable())
	assert.Equal(t, Rates{"house1": {"mon": 100}}, FromRates(table))
}

func TestParseISO(t *testing.T) {
	assert.True(t, ParseISO("").IsZero())
	assert.True(t, ParseISO("yesterday").IsZero())
	assert.Equal(t, 2023, ParseISO("2023-06-01T10:00:00.000Z").Year())
}
