package availability

import (
	"sort"

	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
)

// NightSet is a set of occupied nights.
type NightSet map[daterange.Date]struct{}

func (s NightSet) Has(d daterange.Date) bool {
	_, ok := s[d]
	return ok
}

func (s NightSet) Len() int { return len(s) }

// Sorted returns the nights in ascending order.
func (s NightSet) Sorted() []daterange.Date {
	out := make([]daterange.Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s NightSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, d := range sorted {
		out[i] = d.String()
	}
	return out
}

// OccupiedNights unions the nights of every booking of the house except
// excludeID. Status does not matter: pending and unavailable block a date
// the same way booked does.
func OccupiedNights(bookings []*booking.Booking, houseID houses.HouseID, excludeID booking.BookingID) NightSet {
	set := NightSet{}
	for _, b := range bookings {
		if b == nil || b.HouseID != houseID {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		for _, night := range b.Nights() {
			set[night] = struct{}{}
		}
	}
	return set
}

// Conflicts lists bookings of the same house whose range overlaps candidate,
// ordered by check-in. The candidate itself is skipped by id.
func Conflicts(bookings []*booking.Booking, candidate *booking.Booking) []*booking.Booking {
	if candidate == nil {
		return nil
	}
	var out []*booking.Booking
	for _, b := range bookings {
		if b == nil || b.HouseID != candidate.HouseID || b.ID == candidate.ID {
			continue
		}
		if b.Range.Overlaps(candidate.Range) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Range.CheckIn.Before(out[j].Range.CheckIn)
	})
	return out
}

// IsFree reports whether every night of r is unoccupied.
func (s NightSet) IsFree(r daterange.DateRange) bool {
	for _, night := range r.NightDates() {
		if s.Has(night) {
			return false
		}
	}
	return true
}
