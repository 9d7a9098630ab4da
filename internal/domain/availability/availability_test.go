package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
)

func mk(id, house, in, out string, status booking.Status) *booking.Booking {
	return &booking.Booking{
		ID:      booking.BookingID(id),
		HouseID: houses.HouseID(house),
		Range:   daterange.DateRange{CheckIn: daterange.MustParseDate(in), CheckOut: daterange.MustParseDate(out)},
		Status:  status,
	}
}

func TestOccupiedNights(t *testing.T) {
	list := []*booking.Booking{
		mk("a", "house1", "2024-05-01", "2024-05-03", booking.StatusBooked),
		mk("b", "house1", "2024-05-03", "2024-05-04", booking.StatusPending),
		mk("c", "house1", "2024-05-10", "2024-05-11", booking.StatusUnavailable),
		mk("d", "house2", "2024-05-01", "2024-05-05", booking.StatusBooked),
		nil,
	}

	tests := []struct {
		name    string
		house   houses.HouseID
		exclude booking.BookingID
		want    []string
	}{
		{"all statuses block", "house1", "", []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-10"}},
		{"excluded booking nights stay selectable", "house1", "a", []string{"2024-05-03", "2024-05-10"}},
		{"excluded with no shared nights", "house1", "c", []string{"2024-05-01", "2024-05-02", "2024-05-03"}},
		{"other house", "house2", "", []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04"}},
		{"unknown house", "house9", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OccupiedNights(list, tt.house, tt.exclude)
			assert.Equal(t, tt.want, got.Strings())
		})
	}
}

func TestOccupiedNightsCheckoutDayIsFree(t *testing.T) {
	set := OccupiedNights([]*booking.Booking{mk("a", "house1", "2024-05-01", "2024-05-03", booking.StatusBooked)}, "house1", "")
	assert.False(t, set.Has(daterange.MustParseDate("2024-05-03")))
	assert.True(t, set.IsFree(daterange.DateRange{CheckIn: daterange.MustParseDate("2024-05-03"), CheckOut: daterange.MustParseDate("2024-05-06")}))
	assert.False(t, set.IsFree(daterange.DateRange{CheckIn: daterange.MustParseDate("2024-04-30"), CheckOut: daterange.MustParseDate("2024-05-02")}))
}

func TestConflicts(t *testing.T) {
	list := []*booking.Booking{
		mk("late", "house1", "2024-05-05", "2024-05-08", booking.StatusPending),
		mk("early", "house1", "2024-05-01", "2024-05-04", booking.StatusBooked),
		mk("adjacent", "house1", "2024-05-08", "2024-05-09", booking.StatusBooked),
		mk("elsewhere", "house2", "2024-05-01", "2024-05-09", booking.StatusBooked),
		mk("self", "house1", "2024-05-03", "2024-05-06", booking.StatusBooked),
	}
	got := Conflicts(list, mk("self", "house1", "2024-05-03", "2024-05-06", booking.StatusBooked))
	ids := make([]booking.BookingID, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []booking.BookingID{"early", "late"}, ids)
	assert.Nil(t, Conflicts(list, nil))
}
