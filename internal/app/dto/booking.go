package dto

import (
	"time"

	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Currency: value.Currency}
}

func mapMoneyPtr(value *money.Money) *MoneyDTO {
	if value == nil {
		return nil
	}
	out := MapMoney(*value)
	return &out
}

type Comment struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type Booking struct {
	ID          string    `json:"id"`
	HouseID     string    `json:"house_id"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Nights      int       `json:"nights"`
	Status      string    `json:"status"`
	ContactID   string    `json:"contact_id,omitempty"`
	ContactName string    `json:"contact_name,omitempty"`
	Guests      int       `json:"guests,omitempty"`
	Price       *MoneyDTO `json:"price,omitempty"`
	PriceManual bool      `json:"price_manual"`
	Notes       string    `json:"notes,omitempty"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapBooking renders b; dir may be nil, in which case no contact name is set.
func MapBooking(b *booking.Booking, dir contacts.Directory) Booking {
	out := Booking{
		ID:          string(b.ID),
		HouseID:     string(b.HouseID),
		CheckIn:     b.Range.CheckIn.String(),
		CheckOut:    b.Range.CheckOut.String(),
		Nights:      b.Range.Nights(),
		Status:      string(b.Status),
		ContactID:   string(b.ContactID()),
		Guests:      b.Guests(),
		Price:       mapMoneyPtr(b.Price),
		PriceManual: b.PriceManual,
		Notes:       b.Notes,
		Comments:    make([]Comment, 0, len(b.Comments)),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	for _, c := range b.Comments {
		out.Comments = append(out.Comments, Comment{ID: c.ID, Text: c.Text, At: c.At})
	}
	if dir != nil && out.ContactID != "" {
		out.ContactName = dir.DisplayName(b.ContactID())
	}
	return out
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}

type Cancellation struct {
	BookingID   string    `json:"booking_id"`
	CancelMonth string    `json:"cancel_month"`
	CancelledAt time.Time `json:"cancelled_at"`
	Booking     *Booking  `json:"booking,omitempty"`
}

func MapCancellation(c *booking.Cancellation, dir contacts.Directory) Cancellation {
	out := Cancellation{
		BookingID:   string(c.BookingID),
		CancelMonth: c.CancelMonth,
		CancelledAt: c.CancelledAt,
	}
	if c.Snapshot != nil {
		snap := MapBooking(c.Snapshot, dir)
		out.Booking = &snap
	}
	return out
}

type CancellationCollection struct {
	Items []Cancellation `json:"items"`
}
