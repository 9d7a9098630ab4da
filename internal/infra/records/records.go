// Package records holds the persisted shape of bookings, contacts and
// cancellations. Field names are camelCase in every encoding so a document
// written by one store can be read by another.
package records

import (
	"fmt"
	"strings"
	"time"

	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	domainpricing "guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

// Comment dates are ISO-8601 strings with millisecond precision.
type Comment struct {
	ID   string `json:"id" bson:"id" firestore:"id"`
	Text string `json:"text" bson:"text" firestore:"text"`
	Date string `json:"date" bson:"date" firestore:"date"`
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func FormatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// ParseISO accepts any RFC 3339 timestamp; empty or malformed input is zero.
func ParseISO(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

type Booking struct {
	ID          string    `json:"id" bson:"_id" firestore:"-"`
	HouseID     string    `json:"houseId" bson:"houseId" firestore:"houseId"`
	CheckIn     string    `json:"checkIn" bson:"checkIn" firestore:"checkIn"`
	CheckOut    string    `json:"checkOut" bson:"checkOut" firestore:"checkOut"`
	Status      string    `json:"status" bson:"status" firestore:"status"`
	ContactID   string    `json:"contactId" bson:"contactId" firestore:"contactId"`
	Guests      int       `json:"guests" bson:"guests" firestore:"guests"`
	Price       *int64    `json:"price" bson:"price" firestore:"price"`
	Currency    string    `json:"currency,omitempty" bson:"currency,omitempty" firestore:"currency,omitempty"`
	PriceManual bool      `json:"priceManual" bson:"priceManual" firestore:"priceManual"`
	Notes       string    `json:"notes" bson:"notes" firestore:"notes"`
	Comments    []Comment `json:"comments" bson:"comments" firestore:"comments"`
	CreatedAt   time.Time `json:"createdAt,omitzero" bson:"createdAt,omitempty" firestore:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
	Version     int64     `json:"version,omitempty" bson:"version" firestore:"version,omitempty"`
}

type Contact struct {
	ID        string    `json:"id" bson:"_id" firestore:"-"`
	Name      string    `json:"name" bson:"name" firestore:"name"`
	Phone     string    `json:"phone" bson:"phone" firestore:"phone"`
	Notes     string    `json:"notes" bson:"notes" firestore:"notes"`
	CreatedAt time.Time `json:"createdAt,omitzero" bson:"createdAt,omitempty" firestore:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

// Cancellation flattens the booking snapshot next to the cancellation fields.
type Cancellation struct {
	Booking        `bson:",inline"`
	BookingID      string    `json:"bookingId" bson:"bookingId" firestore:"bookingId"`
	CancelMonth    string    `json:"cancelMonth" bson:"cancelMonth" firestore:"cancelMonth"`
	CancelledAt    time.Time `json:"cancelledAt" bson:"cancelledAt" firestore:"cancelledAt"`
	CancelledAtISO string    `json:"cancelledAtISO" bson:"cancelledAtISO" firestore:"cancelledAtISO"`
}

// Rates is a rate table keyed by house id then weekday key.
type Rates map[string]map[string]int64

func FromBooking(b *domainbooking.Booking) Booking {
	out := Booking{
		ID:          string(b.ID),
		HouseID:     string(b.HouseID),
		CheckIn:     b.Range.CheckIn.String(),
		CheckOut:    b.Range.CheckOut.String(),
		Status:      string(b.Status),
		ContactID:   string(b.ContactID()),
		Guests:      b.Guests(),
		PriceManual: b.PriceManual,
		Notes:       b.Notes,
		Comments:    make([]Comment, 0, len(b.Comments)),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Version:     b.Version,
	}
	if b.Price != nil {
		amount := b.Price.Amount
		out.Price = &amount
		out.Currency = b.Price.Currency
	}
	for _, c := range b.Comments {
		out.Comments = append(out.Comments, Comment{ID: c.ID, Text: c.Text, Date: FormatISO(c.At)})
	}
	return out
}

// ToBooking rebuilds a booking without re-running creation rules, so stored
// data that predates a rule still loads. Only unreadable dates or statuses fail.
func (r Booking) ToBooking(currency string) (*domainbooking.Booking, error) {
	rng, err := daterange.Parse(r.CheckIn, r.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("records: booking %s: %w", r.ID, err)
	}
	status, err := domainbooking.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("records: booking %s: %w", r.ID, err)
	}
	b := &domainbooking.Booking{
		ID:          domainbooking.BookingID(r.ID),
		HouseID:     houses.HouseID(r.HouseID),
		Range:       rng,
		Status:      status,
		PriceManual: r.PriceManual,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
		Version:     r.Version,
	}
	if status.IsStay() {
		b.Party = &domainbooking.GuestParty{ContactID: domaincontacts.ContactID(r.ContactID), Guests: r.Guests}
	}
	if r.Price != nil {
		cur := r.Currency
		if cur == "" {
			cur = currency
		}
		b.Price = &money.Money{Amount: *r.Price, Currency: strings.ToUpper(cur)}
	}
	for _, c := range r.Comments {
		b.Comments = append(b.Comments, domainbooking.Comment{ID: c.ID, Text: c.Text, At: ParseISO(c.Date)})
	}
	return b, nil
}

func FromContact(c *domaincontacts.Contact) Contact {
	return Contact{
		ID:        string(c.ID),
		Name:      c.Name,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r Contact) ToContact() *domaincontacts.Contact {
	return &domaincontacts.Contact{
		ID:        domaincontacts.ContactID(r.ID),
		Name:      strings.TrimSpace(r.Name),
		Phone:     r.Phone,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func FromCancellation(c *domainbooking.Cancellation) Cancellation {
	out := Cancellation{
		BookingID:      string(c.BookingID),
		CancelMonth:    c.CancelMonth,
		CancelledAt:    c.CancelledAt,
		CancelledAtISO: FormatISO(c.CancelledAt),
	}
	if c.Snapshot != nil {
		out.Booking = FromBooking(c.Snapshot)
	}
	out.Booking.ID = string(c.BookingID)
	return out
}

func (r Cancellation) ToCancellation(currency string) (*domainbooking.Cancellation, error) {
	id := r.BookingID
	if id == "" {
		id = r.Booking.ID
	}
	out := &domainbooking.Cancellation{
		BookingID:   domainbooking.BookingID(id),
		CancelMonth: r.CancelMonth,
		CancelledAt: r.CancelledAt.UTC(),
	}
	if out.CancelledAt.IsZero() {
		out.CancelledAt = ParseISO(r.CancelledAtISO)
	}
	snap := r.Booking
	snap.ID = id
	b, err := snap.ToBooking(currency)
	if err != nil {
		return nil, err
	}
	out.Snapshot = b
	if out.CancelMonth == "" {
		out.CancelMonth = b.Range.CheckIn.MonthKey()
	}
	return out, nil
}

func FromRates(t domainpricing.RateTable) Rates {
	if t == nil {
		return nil
	}
	out := make(Rates, len(t))
	for house, days := range t {
		row := make(map[string]int64, len(days))
		for day, rate := range days {
			row[string(day)] = rate
		}
		out[string(house)] = row
	}
	return out
}

// ToRateTable drops unknown weekday keys instead of failing.
func (r Rates) ToRateTable() domainpricing.RateTable {
	if r == nil {
		return nil
	}
	out := make(domainpricing.RateTable, len(r))
	for house, days := range r {
		for day, rate := range days {
			key, err := domainpricing.ParseDayKey(day)
			if err != nil {
				continue
			}
			out.Set(houses.HouseID(house), key, rate)
		}
	}
	return out
}
