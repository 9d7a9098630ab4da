package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	domainanalytics "guesthouse/internal/domain/analytics"
	domainbooking "guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/houses"
)

const (
	SheetSummary       = "Summary"
	SheetMonths        = "Months"
	SheetBookings      = "Bookings"
	SheetCancellations = "Cancellations"
)

// Workbook renders a year report with excelize: a per-house summary, the
// monthly series, every booking checking in during the year, and the
// cancellations filed against that year.
type Workbook struct{}

func (Workbook) Render(ds domainanalytics.Dataset, year int) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetMonths, SheetBookings, SheetCancellations} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	header, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	stats := ds.PortfolioYear(year)
	w := sheetWriter{f: f, header: header}
	w.summary(ds.Catalog, stats)
	w.months(ds.Catalog, stats)
	w.bookings(ds, year)
	w.cancellations(ds, year)
	if w.err != nil {
		return nil, w.err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so the sheet builders stay linear.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) row(sheet string, row int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) headerRow(sheet string, values ...any) {
	w.row(sheet, 1, values...)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(sheet, "A1", last, w.header); err != nil {
		w.err = err
		return
	}
	lastCol, _, _ := excelize.SplitCellName(last)
	w.err = w.f.SetColWidth(sheet, "A", lastCol, 16)
}

func houseName(catalog *houses.Catalog, id houses.HouseID) string {
	if h, ok := catalog.ByID(id); ok {
		return h.Name
	}
	return string(id)
}

func (w *sheetWriter) summary(catalog *houses.Catalog, stats domainanalytics.PortfolioYearStats) {
	w.headerRow(SheetSummary, "House", "Revenue", "Booked nights", "Pending nights", "Unavailable nights",
		"Free nights", "Occupancy %", "Avg nightly rate", "Check-ins", "Guests", "Headcount", "Overbooked")
	row := 2
	for _, hy := range stats.Houses {
		w.row(SheetSummary, row, houseName(catalog, hy.HouseID), hy.Revenue, hy.BookedNights, hy.PendingNights,
			hy.UnavailableNights, hy.FreeNights, hy.Occupancy, hy.AvgNightlyRate, hy.CheckIns, hy.Guests,
			hy.Headcount, hy.Overbooked)
		row++
	}
	w.row(SheetSummary, row, fmt.Sprintf("Total %d", stats.Year), stats.Revenue, stats.OccupiedNights, nil, nil, nil,
		stats.AvgOccupancy, nil, stats.CheckIns, stats.Guests)
}

func (w *sheetWriter) months(catalog *houses.Catalog, stats domainanalytics.PortfolioYearStats) {
	header := []any{"Month"}
	for _, hy := range stats.Houses {
		name := houseName(catalog, hy.HouseID)
		header = append(header, name+" revenue", name+" occupancy %", name+" nights")
	}
	header = append(header, "Total revenue", "Avg occupancy %")
	w.headerRow(SheetMonths, header...)
	for i, r := range stats.Series {
		values := []any{fmt.Sprintf("%d-%02d", stats.Year, int(r.Month))}
		for _, p := range r.Houses {
			values = append(values, p.Revenue, p.Occupancy, p.Nights)
		}
		values = append(values, r.TotalRevenue, r.AvgOccupancy)
		w.row(SheetMonths, i+2, values...)
	}
}

func (w *sheetWriter) bookings(ds domainanalytics.Dataset, year int) {
	w.headerRow(SheetBookings, "ID", "House", "Check-in", "Check-out", "Nights", "Status", "Guest", "Phone",
		"Guests", "Price", "Manual price", "Notes")
	list := make([]*domainbooking.Booking, 0, len(ds.Bookings))
	for _, b := range ds.Bookings {
		if b != nil && b.Range.CheckIn.Year == year {
			list = append(list, b)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if c := list[i].Range.CheckIn.Compare(list[j].Range.CheckIn); c != 0 {
			return c < 0
		}
		return list[i].ID < list[j].ID
	})
	for i, b := range list {
		guest, phone := "", ""
		if b.Status.IsStay() {
			guest = ds.Contacts.DisplayName(b.ContactID())
			if c, ok := ds.Contacts[b.ContactID()]; ok && c != nil {
				phone = c.Phone
			}
		} else {
			guest = domainanalytics.UnavailableLabel
		}
		var price any
		if b.Price != nil {
			price = b.Price.Amount
		}
		w.row(SheetBookings, i+2, string(b.ID), houseName(ds.Catalog, b.HouseID), b.Range.CheckIn.String(),
			b.Range.CheckOut.String(), b.Range.Nights(), string(b.Status), guest, phone, b.Guests(), price,
			b.PriceManual, b.Notes)
	}
}

func (w *sheetWriter) cancellations(ds domainanalytics.Dataset, year int) {
	w.headerRow(SheetCancellations, "Booking", "House", "Check-in", "Check-out", "Cancel month", "Cancelled at")
	prefix := fmt.Sprintf("%04d-", year)
	row := 2
	for _, c := range ds.Cancellations {
		if c == nil || len(c.CancelMonth) < len(prefix) || c.CancelMonth[:len(prefix)] != prefix {
			continue
		}
		house, in, out := "", "", ""
		if c.Snapshot != nil {
			house = houseName(ds.Catalog, c.Snapshot.HouseID)
			in, out = c.Snapshot.Range.CheckIn.String(), c.Snapshot.Range.CheckOut.String()
		}
		w.row(SheetCancellations, row, string(c.BookingID), house, in, out, c.CancelMonth,
			c.CancelledAt.UTC().Format(time.RFC3339))
		row++
	}
}
