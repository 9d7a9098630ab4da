package analytics

import (
	"sort"
	"time"

	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

// UnavailableLabel is the contact name shown for blackout rows.
const UnavailableLabel = "Недоступно"

// BookingDetail is one drill-down row of a month report.
type BookingDetail struct {
	BookingID      booking.BookingID
	Status         booking.Status
	Range          daterange.DateRange
	ContactID      contacts.ContactID
	ContactName    string
	Guests         int
	Price          *money.Money
	// ListPrice is what the whole stay costs at current rates.
	ListPrice      int64
	NightsInWindow int
	WeekendNights  int
	WeekdayNights  int
	TotalNights    int
	Revenue        int64
}

// MonthStats is the occupancy and revenue picture of one house in one month.
type MonthStats struct {
	HouseID     houses.HouseID
	Year        int
	Month       time.Month
	DaysInMonth int

	BookedNights      int
	PendingNights     int
	UnavailableNights int
	OccupiedNights    int
	FreeNights        int
	Occupancy         int

	// OverlapNights counts nights claimed by more than one booking.
	OverlapNights int
	Overbooked    bool

	Revenue        int64
	AvgNightlyRate int64
	WeekendNights  int
	WeekdayNights  int

	Guests    int
	GuestIDs  []contacts.ContactID
	Headcount int
	CheckIns  int

	Details []BookingDetail
}

// Month computes MonthStats for a house. Revenue always comes from stored
// booking prices; the catalog and rate table only fill in list prices.
func Month(catalog *houses.Catalog, houseID houses.HouseID, year int, month time.Month, bookings []*booking.Booking, dir contacts.Directory, rates pricing.RateTable) MonthStats {
	return Dataset{Catalog: catalog, Bookings: bookings, Contacts: dir, Rates: rates}.Month(houseID, year, month)
}

func (d Dataset) Month(houseID houses.HouseID, year int, month time.Month) MonthStats {
	window := daterange.MonthWindow(year, month)
	stats := MonthStats{
		HouseID:     houseID,
		Year:        year,
		Month:       month,
		DaysInMonth: window.Days(),
	}

	guestIDs := map[contacts.ContactID]struct{}{}
	claimed := map[daterange.Date]struct{}{}

	for _, b := range d.Bookings {
		if b == nil || b.HouseID != houseID || !window.Intersects(b.Range) {
			continue
		}
		all := b.Nights()
		inWindow := window.Clip(all)
		weekend := 0
		for _, night := range inWindow {
			claimed[night] = struct{}{}
			if daterange.IsWeekend(night) {
				weekend++
			}
		}

		row := BookingDetail{
			BookingID:      b.ID,
			Status:         b.Status,
			Range:          b.Range,
			ContactID:      b.ContactID(),
			Guests:         b.Guests(),
			Price:          b.Price,
			NightsInWindow: len(inWindow),
			WeekendNights:  weekend,
			WeekdayNights:  len(inWindow) - weekend,
			TotalNights:    len(all),
			ListPrice:      pricing.DefaultStayPrice(d.Catalog, houseID, b.Range.CheckIn, b.Range.CheckOut, d.Rates).Amount,
		}
		if b.Price != nil && len(all) > 0 && b.Status != booking.StatusUnavailable {
			row.Revenue = b.Price.Apportion(len(inWindow), len(all)).Amount
		}

		switch b.Status {
		case booking.StatusBooked:
			stats.BookedNights += row.NightsInWindow
			stats.Revenue += row.Revenue
		case booking.StatusPending:
			stats.PendingNights += row.NightsInWindow
			stats.Revenue += row.Revenue
		case booking.StatusUnavailable:
			stats.UnavailableNights += row.NightsInWindow
		}

		if b.Status == booking.StatusUnavailable {
			row.ContactName = UnavailableLabel
		} else {
			row.ContactName = d.Contacts.DisplayName(row.ContactID)
			stats.WeekendNights += row.WeekendNights
			stats.WeekdayNights += row.WeekdayNights
			if row.ContactID != "" {
				guestIDs[row.ContactID] = struct{}{}
			}
			if window.Contains(b.Range.CheckIn) {
				stats.CheckIns++
				stats.Headcount += row.Guests
			}
		}
		stats.Details = append(stats.Details, row)
	}

	sort.SliceStable(stats.Details, func(i, j int) bool {
		return stats.Details[i].Range.CheckIn.Before(stats.Details[j].Range.CheckIn)
	})

	stats.OccupiedNights = stats.BookedNights + stats.PendingNights + stats.UnavailableNights
	stats.OverlapNights = stats.OccupiedNights - len(claimed)
	stats.Overbooked = stats.OverlapNights > 0 || stats.OccupiedNights > stats.DaysInMonth
	stats.FreeNights = max(stats.DaysInMonth-stats.OccupiedNights, 0)
	stats.Occupancy = occupancy(stats.OccupiedNights, stats.DaysInMonth)
	stats.AvgNightlyRate = money.RoundDiv(stats.Revenue, int64(stats.BookedNights+stats.PendingNights))
	stats.GuestIDs = sortedIDs(guestIDs)
	stats.Guests = len(stats.GuestIDs)
	return stats
}

// occupancy is round(100*occupied/days) clamped to [0, 100].
func occupancy(occupied, days int) int {
	return min(max(money.Percent(occupied, days), 0), 100)
}

func sortedIDs(set map[contacts.ContactID]struct{}) []contacts.ContactID {
	out := make([]contacts.ContactID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
