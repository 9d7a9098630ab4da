package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

func stay(id, house, in, out string, status booking.Status, contact string, price int64) *booking.Booking {
	b := &booking.Booking{
		ID:      booking.BookingID(id),
		HouseID: houses.HouseID(house),
		Range:   daterange.DateRange{CheckIn: daterange.MustParseDate(in), CheckOut: daterange.MustParseDate(out)},
		Status:  status,
	}
	if status != booking.StatusUnavailable {
		b.Party = &booking.GuestParty{ContactID: contacts.ContactID(contact), Guests: 2}
	}
	if price >= 0 {
		p := money.UAH(price)
		b.Price = &p
	}
	return b
}

func dataset(list ...*booking.Booking) Dataset {
	return Dataset{
		Catalog:  houses.DefaultCatalog(),
		Bookings: list,
		Contacts: contacts.NewDirectory([]*contacts.Contact{{ID: "c1", Name: "Оксана"}, {ID: "c2", Name: "Taras"}}),
	}
}

func TestMonthSplitsRevenueAcrossMonthBoundary(t *testing.T) {
	ds := dataset(stay("b1", "house3", "2024-02-28", "2024-03-02", booking.StatusBooked, "c1", 16500))

	feb := ds.Month("house3", 2024, time.February)
	mar := ds.Month("house3", 2024, time.March)

	assert.Equal(t, int64(11000), feb.Revenue)
	assert.Equal(t, int64(5500), mar.Revenue)
	assert.Equal(t, int64(16500), feb.Revenue+mar.Revenue)

	assert.Equal(t, 29, feb.DaysInMonth)
	assert.Equal(t, 2, feb.BookedNights)
	assert.Equal(t, 27, feb.FreeNights)
	assert.Equal(t, 7, feb.Occupancy)
	assert.Equal(t, 2, feb.WeekdayNights)
	assert.Equal(t, 0, feb.WeekendNights)
	assert.Equal(t, 1, feb.CheckIns)
	assert.Equal(t, 2, feb.Headcount)
	assert.Equal(t, int64(5500), feb.AvgNightlyRate)

	assert.Equal(t, 1, mar.WeekendNights)
	assert.Equal(t, 0, mar.CheckIns, "check-in happened in February")
	assert.Equal(t, 1, mar.Guests)

	require.Len(t, feb.Details, 1)
	row := feb.Details[0]
	assert.Equal(t, 2, row.NightsInWindow)
	assert.Equal(t, 3, row.TotalNights)
	assert.Equal(t, int64(11000), row.Revenue)
	assert.Equal(t, "Оксана", row.ContactName)
	// Wed + Thu + Fri at house3 default rates.
	assert.Equal(t, int64(5500+5500+6500), row.ListPrice)
}

func TestMonthApportionmentStaysWithinOneUnit(t *testing.T) {
	for _, price := range []int64{1000, 999, 12345, 7, 0} {
		ds := dataset(stay("b", "house1", "2024-01-29", "2024-02-05", booking.StatusBooked, "c1", price))
		jan := ds.Month("house1", 2024, time.January)
		feb := ds.Month("house1", 2024, time.February)
		assert.InDelta(t, price, jan.Revenue+feb.Revenue, 1, "price %d", price)
	}
}

func TestMonthStatusRules(t *testing.T) {
	ds := dataset(
		stay("late", "house1", "2024-04-20", "2024-04-22", booking.StatusPending, "c2", 20000),
		stay("block", "house1", "2024-04-10", "2024-04-13", booking.StatusUnavailable, "", 9000),
		stay("noprice", "house1", "2024-04-01", "2024-04-03", booking.StatusBooked, "c1", -1),
		stay("dangling", "house1", "2024-04-05", "2024-04-06", booking.StatusBooked, "gone", 13000),
		stay("empty", "house1", "2024-04-25", "2024-04-25", booking.StatusBooked, "c1", 5000),
		stay("other", "house2", "2024-04-01", "2024-04-30", booking.StatusBooked, "c1", 1),
	)
	s := ds.Month("house1", 2024, time.April)

	assert.Equal(t, 3, s.BookedNights)
	assert.Equal(t, 2, s.PendingNights)
	assert.Equal(t, 3, s.UnavailableNights)
	assert.Equal(t, 8, s.OccupiedNights)
	assert.Equal(t, 22, s.FreeNights)
	assert.Equal(t, 27, s.Occupancy)
	assert.Equal(t, int64(33000), s.Revenue, "unpriced and unavailable stays earn nothing")
	assert.Equal(t, int64(6600), s.AvgNightlyRate)
	assert.Equal(t, 5, s.WeekendNights+s.WeekdayNights)
	assert.Equal(t, []contacts.ContactID{"c1", "c2", "gone"}, s.GuestIDs)
	assert.Equal(t, 3, s.Guests)
	assert.Equal(t, 4, s.CheckIns)
	assert.False(t, s.Overbooked)

	var order []booking.BookingID
	names := map[booking.BookingID]string{}
	for _, d := range s.Details {
		order = append(order, d.BookingID)
		names[d.BookingID] = d.ContactName
	}
	assert.Equal(t, []booking.BookingID{"noprice", "dangling", "block", "late", "empty"}, order)
	assert.Equal(t, UnavailableLabel, names["block"])
	assert.Equal(t, contacts.UnknownContactName, names["dangling"])
	assert.Equal(t, "Taras", names["late"])
}

func TestMonthOverlapIsClampedAndFlagged(t *testing.T) {
	ds := dataset(
		stay("a", "house2", "2024-02-01", "2024-02-20", booking.StatusBooked, "c1", 19000),
		stay("b", "house2", "2024-02-10", "2024-03-01", booking.StatusBooked, "c2", 20000),
	)
	s := ds.Month("house2", 2024, time.February)
	assert.Equal(t, 39, s.OccupiedNights)
	assert.Equal(t, 10, s.OverlapNights)
	assert.True(t, s.Overbooked)
	assert.Equal(t, 100, s.Occupancy)
	assert.Equal(t, 0, s.FreeNights)
}

func TestMonthEmptyHouse(t *testing.T) {
	s := dataset().Month("house1", 2023, time.February)
	assert.Equal(t, 28, s.DaysInMonth)
	assert.Equal(t, 28, s.FreeNights)
	assert.Zero(t, s.Occupancy)
	assert.Zero(t, s.AvgNightlyRate)
	assert.Empty(t, s.Details)
}

func yearFixture() Dataset {
	return dataset(
		stay("b1", "house3", "2024-02-28", "2024-03-02", booking.StatusBooked, "c1", 16500),
		stay("b2", "house3", "2024-06-10", "2024-06-12", booking.StatusPending, "c1", 11000),
		stay("b3", "house1", "2024-06-01", "2024-06-03", booking.StatusBooked, "c2", 32000),
		stay("b4", "house1", "2024-06-05", "2024-06-06", booking.StatusUnavailable, "", 5000),
		stay("b5", "house2", "2023-12-30", "2024-01-02", booking.StatusBooked, "c3", 21000),
	)
}

func TestHouseYear(t *testing.T) {
	ds := yearFixture()
	y := ds.HouseYear("house3", 2024)

	assert.Equal(t, 366, y.DaysInYear)
	require.Len(t, y.Months, 12)
	assert.Equal(t, int64(27500), y.Revenue)
	assert.Equal(t, 3, y.BookedNights)
	assert.Equal(t, 2, y.PendingNights)
	assert.Equal(t, 1, y.Occupancy)
	assert.Equal(t, int64(5500), y.AvgNightlyRate)
	assert.Equal(t, 2, y.CheckIns)

	monthly := 0
	for _, m := range y.Months {
		monthly += m.Guests
	}
	assert.Equal(t, 1, y.Guests)
	assert.Equal(t, 3, monthly)
	assert.LessOrEqual(t, y.Guests, monthly)

	carried := ds.HouseYear("house2", 2024)
	assert.Equal(t, int64(7000), carried.Revenue)
	assert.Equal(t, 0, carried.Guests, "stay checked in the previous year")
	assert.Equal(t, 365, ds.HouseYear("house2", 2023).DaysInYear)
}

func TestPortfolioYear(t *testing.T) {
	y := yearFixture().PortfolioYear(2024)

	require.Len(t, y.Houses, 3)
	require.Len(t, y.Series, 12)
	assert.Equal(t, int64(66500), y.Revenue)
	assert.Equal(t, 2, y.Guests)
	assert.Equal(t, 3, y.CheckIns)
	assert.Equal(t, 8, y.OccupiedNights)
	assert.Equal(t, 1, y.AvgOccupancy)

	jan := y.Series[0]
	assert.Equal(t, time.January, jan.Month)
	assert.Equal(t, int64(7000), jan.TotalRevenue)
	assert.Equal(t, 1, jan.AvgOccupancy)

	jun := y.Series[5]
	assert.Equal(t, int64(43000), jun.TotalRevenue)
	assert.Equal(t, 6, jun.AvgOccupancy)
	require.Len(t, jun.Houses, 3)
	assert.Equal(t, houses.HouseID("house1"), jun.Houses[0].HouseID)
	assert.Equal(t, 10, jun.Houses[0].Occupancy)
	assert.Equal(t, 2, jun.Houses[0].Nights)
}

func TestPortfolioMonth(t *testing.T) {
	ds := yearFixture()
	b := stay("x", "house1", "2024-06-20", "2024-06-21", booking.StatusBooked, "c1", 1)
	ds.Cancellations = []*booking.Cancellation{b.Cancel(time.Now()), nil}

	p := ds.PortfolioMonth(2024, time.June)
	require.Len(t, p.Houses, 3)
	assert.Equal(t, int64(43000), p.Revenue)
	assert.Equal(t, 4, p.BookedNights+p.PendingNights)
	assert.Equal(t, 1, p.UnavailableNights)
	assert.Equal(t, 6, p.AvgOccupancy)
	assert.Equal(t, 2, p.Guests)
	assert.Equal(t, 1, p.Cancellations)
	assert.Equal(t, 0, ds.PortfolioMonth(2024, time.July).Cancellations)
}

func TestMonthPackageFunc(t *testing.T) {
	list := []*booking.Booking{stay("b1", "house3", "2024-03-01", "2024-03-04", booking.StatusBooked, "c1", 19500)}
	s := Month(houses.DefaultCatalog(), "house3", 2024, time.March, list, nil, nil)
	assert.Equal(t, int64(19500), s.Revenue)
	assert.Equal(t, 3, s.WeekendNights)
	assert.Equal(t, int64(19500), s.Details[0].ListPrice)
	assert.Equal(t, contacts.UnknownContactName, s.Details[0].ContactName)
}
