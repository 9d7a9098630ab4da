package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/events"
	"guesthouse/internal/domain/shared/money"
)

var (
	ErrBookingNotFound  = errors.New("booking: not found")
	ErrIDRequired       = errors.New("booking: id required")
	ErrHouseRequired    = errors.New("booking: house required")
	ErrInvalidStatus    = errors.New("booking: invalid status")
	ErrInvalidGuests    = errors.New("booking: guests must be between 1 and 30")
	ErrContactRequired  = errors.New("booking: contact required for a stay")
	ErrPartyNotAllowed  = errors.New("booking: unavailable blocks carry no guest party")
	ErrNegativePrice    = errors.New("booking: price cannot be negative")
	ErrCommentNotFound  = errors.New("booking: comment not found")
	ErrEmptyComment     = errors.New("booking: comment text required")
	ErrStayStatusNeeded = errors.New("booking: stays must be booked or pending")
)

const (
	MinGuests = 1
	MaxGuests = 30
)

type BookingID string

type Status string

const (
	StatusBooked      Status = "booked"
	StatusPending     Status = "pending"
	StatusUnavailable Status = "unavailable"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusBooked, StatusPending, StatusUnavailable:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// IsStay is true for statuses that represent guests (and revenue).
func (s Status) IsStay() bool {
	return s == StatusBooked || s == StatusPending
}

// GuestParty is present exactly when the booking is a stay.
type GuestParty struct {
	ContactID contacts.ContactID
	Guests    int
}

// Booking is a stay or a blackout interval of one house.
type Booking struct {
	ID          BookingID
	HouseID     houses.HouseID
	Range       daterange.DateRange
	Status      Status
	Party       *GuestParty
	Price       *money.Money
	PriceManual bool
	Notes       string
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type Repository interface {
	List(ctx context.Context) ([]*Booking, error)
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id BookingID) error
}

type StayParams struct {
	ID          BookingID
	HouseID     houses.HouseID
	Range       daterange.DateRange
	Status      Status
	ContactID   contacts.ContactID
	Guests      int
	Price       *money.Money
	PriceManual bool
	Notes       string
	Now         time.Time
}

// NewStay creates a booked or pending stay for a guest.
func NewStay(params StayParams) (*Booking, error) {
	if !params.Status.IsStay() {
		return nil, ErrStayStatusNeeded
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:          params.ID,
		HouseID:     params.HouseID,
		Range:       params.Range,
		Status:      params.Status,
		Party:       &GuestParty{ContactID: params.ContactID, Guests: params.Guests},
		Price:       clonePrice(params.Price),
		PriceManual: params.PriceManual,
		Notes:       params.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.recordSaved(true, now)
	return b, nil
}

type BlackoutParams struct {
	ID          BookingID
	HouseID     houses.HouseID
	Range       daterange.DateRange
	Price       *money.Money
	PriceManual bool
	Notes       string
	Now         time.Time
}

// NewBlackout blocks dates of a house without a guest.
func NewBlackout(params BlackoutParams) (*Booking, error) {
	now := params.Now.UTC()
	b := &Booking{
		ID:          params.ID,
		HouseID:     params.HouseID,
		Range:       params.Range,
		Status:      StatusUnavailable,
		Price:       clonePrice(params.Price),
		PriceManual: params.PriceManual,
		Notes:       params.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.recordSaved(true, now)
	return b, nil
}

func (b *Booking) Validate() error {
	if strings.TrimSpace(string(b.ID)) == "" {
		return ErrIDRequired
	}
	if strings.TrimSpace(string(b.HouseID)) == "" {
		return ErrHouseRequired
	}
	if err := b.Range.Validate(); err != nil {
		return err
	}
	switch b.Status {
	case StatusUnavailable:
		if b.Party != nil {
			return ErrPartyNotAllowed
		}
	case StatusBooked, StatusPending:
		if b.Party == nil || b.Party.ContactID == "" {
			return ErrContactRequired
		}
		if b.Party.Guests < MinGuests || b.Party.Guests > MaxGuests {
			return ErrInvalidGuests
		}
	default:
		return ErrInvalidStatus
	}
	if b.Price != nil && b.Price.Amount < 0 {
		return ErrNegativePrice
	}
	return nil
}

// UpdateParams carries the editable fields; Party must be nil for unavailable.
type UpdateParams struct {
	HouseID     houses.HouseID
	Range       daterange.DateRange
	Status      Status
	Party       *GuestParty
	Price       *money.Money
	PriceManual bool
	Notes       string
	Now         time.Time
}

func (b *Booking) Update(params UpdateParams) error {
	next := *b
	next.HouseID = params.HouseID
	next.Range = params.Range
	next.Status = params.Status
	next.Party = nil
	if params.Party != nil && params.Status != StatusUnavailable {
		party := *params.Party
		next.Party = &party
	}
	next.Price = clonePrice(params.Price)
	next.PriceManual = params.PriceManual
	next.Notes = params.Notes
	if err := next.Validate(); err != nil {
		return err
	}
	b.HouseID = next.HouseID
	b.Range = next.Range
	b.Status = next.Status
	b.Party = next.Party
	b.Price = next.Price
	b.PriceManual = next.PriceManual
	b.Notes = next.Notes
	b.UpdatedAt = params.Now.UTC()
	b.recordSaved(false, b.UpdatedAt)
	return nil
}

func (b *Booking) ContactID() contacts.ContactID {
	if b.Party == nil {
		return ""
	}
	return b.Party.ContactID
}

func (b *Booking) Guests() int {
	if b.Party == nil {
		return 0
	}
	return b.Party.Guests
}

func (b *Booking) Nights() []daterange.Date {
	return b.Range.NightDates()
}

// Clone returns a deep copy without pending events.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	out := &Booking{
		ID:          b.ID,
		HouseID:     b.HouseID,
		Range:       b.Range,
		Status:      b.Status,
		Price:       clonePrice(b.Price),
		PriceManual: b.PriceManual,
		Notes:       b.Notes,
		Comments:    append([]Comment(nil), b.Comments...),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Version:     b.Version,
	}
	if b.Party != nil {
		party := *b.Party
		out.Party = &party
	}
	return out
}

func (b *Booking) recordSaved(created bool, at time.Time) {
	var price int64
	if b.Price != nil {
		price = b.Price.Amount
	}
	b.Record(BookingSaved{
		BookingID: b.ID,
		HouseID:   b.HouseID,
		Status:    b.Status,
		CheckIn:   b.Range.CheckIn.String(),
		CheckOut:  b.Range.CheckOut.String(),
		Price:     price,
		Created:   created,
		At:        at,
	})
}

func clonePrice(p *money.Money) *money.Money {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
