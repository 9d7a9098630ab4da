package dto

import (
	"guesthouse/internal/domain/analytics"
)

type BookingDetail struct {
	BookingID      string    `json:"booking_id"`
	Status         string    `json:"status"`
	CheckIn        string    `json:"check_in"`
	CheckOut       string    `json:"check_out"`
	ContactID      string    `json:"contact_id,omitempty"`
	ContactName    string    `json:"contact_name"`
	Guests         int       `json:"guests"`
	Price          *MoneyDTO `json:"price,omitempty"`
	ListPrice      int64     `json:"list_price"`
	NightsInWindow int       `json:"nights_in_window"`
	WeekendNights  int       `json:"weekend_nights"`
	WeekdayNights  int       `json:"weekday_nights"`
	TotalNights    int       `json:"total_nights"`
	Revenue        int64     `json:"revenue"`
}

type MonthStats struct {
	HouseID           string          `json:"house_id"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	DaysInMonth       int             `json:"days_in_month"`
	BookedNights      int             `json:"booked_nights"`
	PendingNights     int             `json:"pending_nights"`
	UnavailableNights int             `json:"unavailable_nights"`
	OccupiedNights    int             `json:"occupied_nights"`
	FreeNights        int             `json:"free_nights"`
	Occupancy         int             `json:"occupancy"`
	OverlapNights     int             `json:"overlap_nights"`
	Overbooked        bool            `json:"overbooked"`
	Revenue           int64           `json:"revenue"`
	AvgNightlyRate    int64           `json:"avg_nightly_rate"`
	WeekendNights     int             `json:"weekend_nights"`
	WeekdayNights     int             `json:"weekday_nights"`
	Guests            int             `json:"guests"`
	Headcount         int             `json:"headcount"`
	CheckIns          int             `json:"check_ins"`
	Details           []BookingDetail `json:"details"`
}

func MapMonthStats(s analytics.MonthStats) MonthStats {
	out := MonthStats{
		HouseID:           string(s.HouseID),
		Year:              s.Year,
		Month:             int(s.Month),
		DaysInMonth:       s.DaysInMonth,
		BookedNights:      s.BookedNights,
		PendingNights:     s.PendingNights,
		UnavailableNights: s.UnavailableNights,
		OccupiedNights:    s.OccupiedNights,
		FreeNights:        s.FreeNights,
		Occupancy:         s.Occupancy,
		OverlapNights:     s.OverlapNights,
		Overbooked:        s.Overbooked,
		Revenue:           s.Revenue,
		AvgNightlyRate:    s.AvgNightlyRate,
		WeekendNights:     s.WeekendNights,
		WeekdayNights:     s.WeekdayNights,
		Guests:            s.Guests,
		Headcount:         s.Headcount,
		CheckIns:          s.CheckIns,
		Details:           make([]BookingDetail, 0, len(s.Details)),
	}
	for _, d := range s.Details {
		out.Details = append(out.Details, BookingDetail{
			BookingID:      string(d.BookingID),
			Status:         string(d.Status),
			CheckIn:        d.Range.CheckIn.String(),
			CheckOut:       d.Range.CheckOut.String(),
			ContactID:      string(d.ContactID),
			ContactName:    d.ContactName,
			Guests:         d.Guests,
			Price:          mapMoneyPtr(d.Price),
			ListPrice:      d.ListPrice,
			NightsInWindow: d.NightsInWindow,
			WeekendNights:  d.WeekendNights,
			WeekdayNights:  d.WeekdayNights,
			TotalNights:    d.TotalNights,
			Revenue:        d.Revenue,
		})
	}
	return out
}

type PortfolioMonth struct {
	Year              int          `json:"year"`
	Month             int          `json:"month"`
	Houses            []MonthStats `json:"houses"`
	Revenue           int64        `json:"revenue"`
	BookedNights      int          `json:"booked_nights"`
	PendingNights     int          `json:"pending_nights"`
	UnavailableNights int          `json:"unavailable_nights"`
	FreeNights        int          `json:"free_nights"`
	Guests            int          `json:"guests"`
	Headcount         int          `json:"headcount"`
	CheckIns          int          `json:"check_ins"`
	AvgOccupancy      int          `json:"avg_occupancy"`
	Cancellations     int          `json:"cancellations"`
}

func MapPortfolioMonth(p analytics.PortfolioMonthStats) PortfolioMonth {
	out := PortfolioMonth{
		Year:              p.Year,
		Month:             int(p.Month),
		Houses:            make([]MonthStats, 0, len(p.Houses)),
		Revenue:           p.Revenue,
		BookedNights:      p.BookedNights,
		PendingNights:     p.PendingNights,
		UnavailableNights: p.UnavailableNights,
		FreeNights:        p.FreeNights,
		Guests:            p.Guests,
		Headcount:         p.Headcount,
		CheckIns:          p.CheckIns,
		AvgOccupancy:      p.AvgOccupancy,
		Cancellations:     p.Cancellations,
	}
	for _, s := range p.Houses {
		out.Houses = append(out.Houses, MapMonthStats(s))
	}
	return out
}

// MonthFigure is the compact per-month line of an annual house card.
type MonthFigure struct {
	Month     int   `json:"month"`
	Revenue   int64 `json:"revenue"`
	Occupancy int   `json:"occupancy"`
	Nights    int   `json:"nights"`
}

type HouseYear struct {
	HouseID           string        `json:"house_id"`
	Year              int           `json:"year"`
	DaysInYear        int           `json:"days_in_year"`
	Revenue           int64         `json:"revenue"`
	BookedNights      int           `json:"booked_nights"`
	PendingNights     int           `json:"pending_nights"`
	UnavailableNights int           `json:"unavailable_nights"`
	FreeNights        int           `json:"free_nights"`
	WeekendNights     int           `json:"weekend_nights"`
	WeekdayNights     int           `json:"weekday_nights"`
	CheckIns          int           `json:"check_ins"`
	Headcount         int           `json:"headcount"`
	Guests            int           `json:"guests"`
	Occupancy         int           `json:"occupancy"`
	AvgNightlyRate    int64         `json:"avg_nightly_rate"`
	Overbooked        bool          `json:"overbooked"`
	Months            []MonthFigure `json:"months"`
}

func MapHouseYear(y analytics.YearStats) HouseYear {
	out := HouseYear{
		HouseID:           string(y.HouseID),
		Year:              y.Year,
		DaysInYear:        y.DaysInYear,
		Revenue:           y.Revenue,
		BookedNights:      y.BookedNights,
		PendingNights:     y.PendingNights,
		UnavailableNights: y.UnavailableNights,
		FreeNights:        y.FreeNights,
		WeekendNights:     y.WeekendNights,
		WeekdayNights:     y.WeekdayNights,
		CheckIns:          y.CheckIns,
		Headcount:         y.Headcount,
		Guests:            y.Guests,
		Occupancy:         y.Occupancy,
		AvgNightlyRate:    y.AvgNightlyRate,
		Overbooked:        y.Overbooked,
		Months:            make([]MonthFigure, 0, len(y.Months)),
	}
	for _, m := range y.Months {
		out.Months = append(out.Months, MonthFigure{
			Month:     int(m.Month),
			Revenue:   m.Revenue,
			Occupancy: m.Occupancy,
			Nights:    m.BookedNights + m.PendingNights,
		})
	}
	return out
}

type SeriesPoint struct {
	HouseID   string `json:"house_id"`
	Revenue   int64  `json:"revenue"`
	Occupancy int    `json:"occupancy"`
	Nights    int    `json:"nights"`
}

type ChartRow struct {
	Month        int           `json:"month"`
	Houses       []SeriesPoint `json:"houses"`
	TotalRevenue int64         `json:"total_revenue"`
	AvgOccupancy int           `json:"avg_occupancy"`
}

type PortfolioYear struct {
	Year           int         `json:"year"`
	Houses         []HouseYear `json:"houses"`
	Series         []ChartRow  `json:"series"`
	Revenue        int64       `json:"revenue"`
	OccupiedNights int         `json:"occupied_nights"`
	CheckIns       int         `json:"check_ins"`
	Guests         int         `json:"guests"`
	AvgOccupancy   int         `json:"avg_occupancy"`
}

func MapPortfolioYear(p analytics.PortfolioYearStats) PortfolioYear {
	out := PortfolioYear{
		Year:           p.Year,
		Houses:         make([]HouseYear, 0, len(p.Houses)),
		Series:         make([]ChartRow, 0, len(p.Series)),
		Revenue:        p.Revenue,
		OccupiedNights: p.OccupiedNights,
		CheckIns:       p.CheckIns,
		Guests:         p.Guests,
		AvgOccupancy:   p.AvgOccupancy,
	}
	for _, h := range p.Houses {
		out.Houses = append(out.Houses, MapHouseYear(h))
	}
	for _, row := range p.Series {
		r := ChartRow{Month: int(row.Month), TotalRevenue: row.TotalRevenue, AvgOccupancy: row.AvgOccupancy}
		for _, pt := range row.Houses {
			r.Houses = append(r.Houses, SeriesPoint{HouseID: string(pt.HouseID), Revenue: pt.Revenue, Occupancy: pt.Occupancy, Nights: pt.Nights})
		}
		out.Series = append(out.Series, r)
	}
	return out
}

type OccupiedNights struct {
	HouseID string   `json:"house_id"`
	Nights  []string `json:"nights"`
}
