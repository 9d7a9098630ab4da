package bookings

import (
	"context"
	"errors"
	"time"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/dto"
	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/middleware"
	"guesthouse/internal/app/outbox"
	"guesthouse/internal/app/uow"
	domainavailability "guesthouse/internal/domain/availability"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

const saveBookingKey = "bookings.save"

// ContactInput creates or edits the guest inline, as the booking form does.
type ContactInput struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// SaveBookingCommand upserts a booking. An empty ID creates a new one.
type SaveBookingCommand struct {
	ID              string        `json:"id"`
	HouseID         string        `json:"house_id" validate:"required"`
	CheckIn         string        `json:"check_in" validate:"required,civildate"`
	CheckOut        string        `json:"check_out" validate:"required,civildate"`
	Status          string        `json:"status" validate:"required,bookingstatus"`
	ContactID       string        `json:"contact_id"`
	Contact         *ContactInput `json:"contact"`
	Guests          int           `json:"guests" validate:"gte=0,lte=30"`
	Price           *int64        `json:"price" validate:"omitempty,gte=0"`
	PriceManual     bool          `json:"price_manual"`
	Notes           string        `json:"notes"`
	IdempotencyKeyV string        `json:"-"`
}

func (c SaveBookingCommand) Key() string            { return saveBookingKey }
func (c SaveBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c SaveBookingCommand) ResultPrototype() any   { return &SaveBookingResult{} }

type SaveBookingResult struct {
	Booking dto.Booking `json:"booking"`
	Created bool        `json:"created"`
	// Conflicts lists overlapping bookings of the same house. Saving is
	// never blocked by them.
	Conflicts []dto.Booking `json:"conflicts"`
}

type SaveBookingHandler struct {
	UoWFactory uow.UoWFactory
	Catalog    *houses.Catalog
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
	IDs        support.IDs
}

func (h *SaveBookingHandler) Handle(ctx context.Context, cmd SaveBookingCommand) (*SaveBookingResult, error) {
	house, ok := h.Catalog.ByID(houses.HouseID(cmd.HouseID))
	if !ok {
		return nil, houses.ErrHouseNotFound
	}
	rng, err := daterange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	status, err := domainbooking.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	now := h.Clock.Now()

	var result *SaveBookingResult
	err = support.Within(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		rates, err := support.RateTable(ctx, unit, h.Catalog)
		if err != nil {
			return err
		}
		computed := pricing.DefaultStayPrice(h.Catalog, house.ID, rng.CheckIn, rng.CheckOut, rates)
		var stored *money.Money
		if cmd.Price != nil {
			stored = &money.Money{Amount: *cmd.Price, Currency: computed.Currency}
		}
		price := pricing.ResolveStayPrice(cmd.PriceManual, stored, computed)

		var party *domainbooking.GuestParty
		if status.IsStay() {
			contactID, err := h.resolveContact(ctx, unit, cmd, now)
			if err != nil {
				return err
			}
			party = &domainbooking.GuestParty{ContactID: contactID, Guests: cmd.Guests}
		}

		b, created, err := h.upsert(ctx, unit, cmd, house.ID, rng, status, party, &price, now)
		if err != nil {
			return err
		}

		all, err := unit.Bookings().List(ctx)
		if err != nil {
			return err
		}
		conflicts := domainavailability.Conflicts(all, b)

		if err := unit.Bookings().Save(ctx, b); err != nil {
			return err
		}
		if err := outbox.Publish(ctx, h.Outbox, h.Encoder, b); err != nil {
			return err
		}

		dir, err := support.Directory(ctx, unit)
		if err != nil {
			return err
		}
		result = &SaveBookingResult{Booking: dto.MapBooking(b, dir), Created: created, Conflicts: make([]dto.Booking, 0, len(conflicts))}
		for _, c := range conflicts {
			result.Conflicts = append(result.Conflicts, dto.MapBooking(c, dir))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *SaveBookingHandler) upsert(
	ctx context.Context,
	unit uow.UnitOfWork,
	cmd SaveBookingCommand,
	houseID houses.HouseID,
	rng daterange.DateRange,
	status domainbooking.Status,
	party *domainbooking.GuestParty,
	price *money.Money,
	now time.Time,
) (*domainbooking.Booking, bool, error) {
	id := domainbooking.BookingID(cmd.ID)
	if id != "" {
		existing, err := unit.Bookings().ByID(ctx, id)
		switch {
		case err == nil:
			err = existing.Update(domainbooking.UpdateParams{
				HouseID:     houseID,
				Range:       rng,
				Status:      status,
				Party:       party,
				Price:       price,
				PriceManual: cmd.PriceManual,
				Notes:       cmd.Notes,
				Now:         now,
			})
			return existing, false, err
		case !errors.Is(err, domainbooking.ErrBookingNotFound):
			return nil, false, err
		}
	} else {
		id = domainbooking.BookingID(h.IDs.New())
	}

	if party == nil {
		b, err := domainbooking.NewBlackout(domainbooking.BlackoutParams{
			ID: id, HouseID: houseID, Range: rng, Price: price, PriceManual: cmd.PriceManual, Notes: cmd.Notes, Now: now,
		})
		return b, true, err
	}
	b, err := domainbooking.NewStay(domainbooking.StayParams{
		ID:          id,
		HouseID:     houseID,
		Range:       rng,
		Status:      status,
		ContactID:   party.ContactID,
		Guests:      party.Guests,
		Price:       price,
		PriceManual: cmd.PriceManual,
		Notes:       cmd.Notes,
		Now:         now,
	})
	return b, true, err
}

// resolveContact returns the guest id for a stay, saving inline contact
// details first when the form sent them.
func (h *SaveBookingHandler) resolveContact(ctx context.Context, unit uow.UnitOfWork, cmd SaveBookingCommand, now time.Time) (domaincontacts.ContactID, error) {
	id := domaincontacts.ContactID(cmd.ContactID)
	if cmd.Contact == nil {
		return id, nil
	}
	if id != "" {
		existing, err := unit.Contacts().ByID(ctx, id)
		switch {
		case err == nil:
			if err := existing.Update(cmd.Contact.Name, cmd.Contact.Phone, cmd.Contact.Notes, now); err != nil {
				return "", err
			}
			return id, unit.Contacts().Save(ctx, existing)
		case !errors.Is(err, domaincontacts.ErrContactNotFound):
			return "", err
		}
	} else {
		id = domaincontacts.ContactID(h.IDs.New())
	}
	contact, err := domaincontacts.NewContact(domaincontacts.CreateParams{
		ID:    id,
		Name:  cmd.Contact.Name,
		Phone: cmd.Contact.Phone,
		Notes: cmd.Contact.Notes,
		Now:   now,
	})
	if err != nil {
		return "", err
	}
	return id, unit.Contacts().Save(ctx, contact)
}

var _ commands.Handler[SaveBookingCommand, *SaveBookingResult] = (*SaveBookingHandler)(nil)
var _ middleware.IdempotentCommand = SaveBookingCommand{}
