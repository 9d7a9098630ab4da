package booking

import (
	"time"

	"guesthouse/internal/domain/houses"
)

type BookingSaved struct {
	BookingID BookingID      `json:"booking_id"`
	HouseID   houses.HouseID `json:"house_id"`
	Status    Status         `json:"status"`
	CheckIn   string         `json:"check_in"`
	CheckOut  string         `json:"check_out"`
	Price     int64          `json:"price"`
	Created   bool           `json:"created"`
	At        time.Time      `json:"at"`
}

func (e BookingSaved) EventName() string     { return "booking.saved" }
func (e BookingSaved) AggregateID() string   { return string(e.BookingID) }
func (e BookingSaved) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID   BookingID      `json:"booking_id"`
	HouseID     houses.HouseID `json:"house_id"`
	CancelMonth string         `json:"cancel_month"`
	At          time.Time      `json:"at"`
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }
