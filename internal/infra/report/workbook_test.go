package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	domainanalytics "guesthouse/internal/domain/analytics"
	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

func fixture() domainanalytics.Dataset {
	price := money.UAH(19500)
	stay := &booking.Booking{
		ID:      "b1",
		HouseID: "house3",
		Range:   daterange.DateRange{CheckIn: daterange.MustParseDate("2024-03-01"), CheckOut: daterange.MustParseDate("2024-03-04")},
		Status:  booking.StatusBooked,
		Party:   &booking.GuestParty{ContactID: "c1", Guests: 2},
		Price:   &price,
	}
	blackout := &booking.Booking{
		ID:      "b2",
		HouseID: "house1",
		Range:   daterange.DateRange{CheckIn: daterange.MustParseDate("2024-01-10"), CheckOut: daterange.MustParseDate("2024-01-12")},
		Status:  booking.StatusUnavailable,
	}
	otherYear := &booking.Booking{
		ID:      "b3",
		HouseID: "house2",
		Range:   daterange.DateRange{CheckIn: daterange.MustParseDate("2023-12-30"), CheckOut: daterange.MustParseDate("2024-01-02")},
		Status:  booking.StatusUnavailable,
	}
	return domainanalytics.Dataset{
		Catalog:  houses.DefaultCatalog(),
		Bookings: []*booking.Booking{stay, blackout, otherYear},
		Contacts: contacts.NewDirectory([]*contacts.Contact{{ID: "c1", Name: "Оксана", Phone: "+380501112233"}}),
		Cancellations: []*booking.Cancellation{
			{BookingID: "old", Snapshot: stay.Clone(), CancelMonth: "2024-03", CancelledAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			{BookingID: "older", CancelMonth: "2023-05"},
		},
	}
}

func TestWorkbookRender(t *testing.T) {
	data, err := Workbook{}.Render(fixture(), 2024)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetMonths, SheetBookings, SheetCancellations}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 5, "header, three houses, total")
	assert.Equal(t, "House", summary[0][0])
	assert.Equal(t, "Лісова тиша", summary[3][0])
	assert.Equal(t, "19500", summary[3][1])
	assert.Equal(t, "Total 2024", summary[4][0])

	months, err := f.GetRows(SheetMonths)
	require.NoError(t, err)
	require.Len(t, months, 13)
	assert.Equal(t, "2024-03", months[3][0])

	rows, err := f.GetRows(SheetBookings)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two bookings checking in during 2024")
	assert.Equal(t, "b2", rows[1][0])
	assert.Equal(t, domainanalytics.UnavailableLabel, rows[1][6])
	assert.Equal(t, "b1", rows[2][0])
	assert.Equal(t, "Оксана", rows[2][6])
	assert.Equal(t, "+380501112233", rows[2][7])

	cancels, err := f.GetRows(SheetCancellations)
	require.NoError(t, err)
	require.Len(t, cancels, 2)
	assert.Equal(t, "old", cancels[1][0])
	assert.Equal(t, "2024-03", cancels[1][4])
}

func TestWorkbookEmptyYear(t *testing.T) {
	ds := domainanalytics.Dataset{Catalog: houses.DefaultCatalog()}
	data, err := Workbook{}.Render(ds, 2030)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
