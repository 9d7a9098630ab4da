package analytics

import (
	"time"

	"guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

// PortfolioMonthStats sums MonthStats across the catalog.
type PortfolioMonthStats struct {
	Year              int
	Month             time.Month
	Houses            []MonthStats
	Revenue           int64
	BookedNights      int
	PendingNights     int
	UnavailableNights int
	FreeNights        int
	// Guests is the sum of per-house unique guests.
	Guests        int
	Headcount     int
	CheckIns      int
	AvgOccupancy  int
	Cancellations int
}

func (d Dataset) PortfolioMonth(year int, month time.Month) PortfolioMonthStats {
	out := PortfolioMonthStats{Year: year, Month: month}
	occupancySum := 0
	for _, id := range d.Catalog.IDs() {
		s := d.Month(id, year, month)
		out.Houses = append(out.Houses, s)
		out.Revenue += s.Revenue
		out.BookedNights += s.BookedNights
		out.PendingNights += s.PendingNights
		out.UnavailableNights += s.UnavailableNights
		out.FreeNights += s.FreeNights
		out.Guests += s.Guests
		out.Headcount += s.Headcount
		out.CheckIns += s.CheckIns
		occupancySum += s.Occupancy
	}
	out.AvgOccupancy = int(money.RoundDiv(int64(occupancySum), int64(len(out.Houses))))

	key := daterange.NewDate(year, month, 1).MonthKey()
	for _, c := range d.Cancellations {
		if c != nil && c.CancelMonth == key {
			out.Cancellations++
		}
	}
	return out
}

// YearStats is the annual summary of one house.
type YearStats struct {
	HouseID    houses.HouseID
	Year       int
	DaysInYear int
	Months     []MonthStats

	Revenue           int64
	BookedNights      int
	PendingNights     int
	UnavailableNights int
	FreeNights        int
	WeekendNights     int
	WeekdayNights     int
	CheckIns          int
	Headcount         int
	Guests            int
	Occupancy         int
	AvgNightlyRate    int64
	Overbooked        bool
}

// HouseYear sums the twelve months of a house. Unique guests are recounted
// from bookings that check in during the year so repeat guests count once.
func (d Dataset) HouseYear(houseID houses.HouseID, year int) YearStats {
	out := YearStats{HouseID: houseID, Year: year, DaysInYear: daterange.DaysInYear(year)}
	for m := time.January; m <= time.December; m++ {
		s := d.Month(houseID, year, m)
		out.Months = append(out.Months, s)
		out.Revenue += s.Revenue
		out.BookedNights += s.BookedNights
		out.PendingNights += s.PendingNights
		out.UnavailableNights += s.UnavailableNights
		out.FreeNights += s.FreeNights
		out.WeekendNights += s.WeekendNights
		out.WeekdayNights += s.WeekdayNights
		out.CheckIns += s.CheckIns
		out.Headcount += s.Headcount
		out.Overbooked = out.Overbooked || s.Overbooked
	}
	occupied := out.BookedNights + out.PendingNights + out.UnavailableNights
	out.Occupancy = occupancy(occupied, out.DaysInYear)
	out.AvgNightlyRate = money.RoundDiv(out.Revenue, int64(out.BookedNights+out.PendingNights))
	out.Guests = len(d.yearGuests(year, func(h houses.HouseID) bool { return h == houseID }))
	return out
}

// SeriesPoint is one house's figures in a chart row.
type SeriesPoint struct {
	HouseID   houses.HouseID
	Revenue   int64
	Occupancy int
	Nights    int
}

// ChartRow is one month of the annual chart series.
type ChartRow struct {
	Month        time.Month
	Houses       []SeriesPoint
	TotalRevenue int64
	AvgOccupancy int
}

type PortfolioYearStats struct {
	Year   int
	Houses []YearStats
	Series []ChartRow

	Revenue        int64
	OccupiedNights int
	CheckIns       int
	Guests         int
	AvgOccupancy   int
}

// PortfolioYear rolls the whole catalog up for a year. AvgOccupancy is the
// mean of the twelve monthly portfolio averages.
func (d Dataset) PortfolioYear(year int) PortfolioYearStats {
	out := PortfolioYearStats{Year: year}
	for _, id := range d.Catalog.IDs() {
		out.Houses = append(out.Houses, d.HouseYear(id, year))
	}

	avgSum := int64(0)
	for i := 0; i < 12; i++ {
		row := ChartRow{Month: time.Month(i + 1)}
		occupancySum := 0
		for _, hy := range out.Houses {
			s := hy.Months[i]
			row.Houses = append(row.Houses, SeriesPoint{
				HouseID:   hy.HouseID,
				Revenue:   s.Revenue,
				Occupancy: s.Occupancy,
				Nights:    s.BookedNights + s.PendingNights,
			})
			row.TotalRevenue += s.Revenue
			occupancySum += s.Occupancy
			out.OccupiedNights += s.BookedNights + s.PendingNights
			out.CheckIns += s.CheckIns
		}
		row.AvgOccupancy = int(money.RoundDiv(int64(occupancySum), int64(len(out.Houses))))
		out.Revenue += row.TotalRevenue
		avgSum += int64(row.AvgOccupancy)
		out.Series = append(out.Series, row)
	}
	out.AvgOccupancy = int(money.RoundDiv(avgSum, 12))
	out.Guests = len(d.yearGuests(year, func(houses.HouseID) bool { return true }))
	return out
}

// yearGuests collects contacts of stays checking in during year.
func (d Dataset) yearGuests(year int, keep func(houses.HouseID) bool) map[contacts.ContactID]struct{} {
	set := map[contacts.ContactID]struct{}{}
	for _, b := range d.Bookings {
		if b == nil || b.Range.CheckIn.Year != year || !b.Status.IsStay() {
			continue
		}
		if id := b.ContactID(); id != "" && keep(b.HouseID) {
			set[id] = struct{}{}
		}
	}
	return set
}
