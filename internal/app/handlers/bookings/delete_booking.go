package bookings

import (
	"context"

	"guesthouse/internal/app/commands"
	"guesthouse/internal/app/dto"
	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/outbox"
	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
)

const deleteBookingKey = "bookings.delete"

type DeleteBookingCommand struct {
	ID string `json:"id" validate:"required"`
}

func (c DeleteBookingCommand) Key() string { return deleteBookingKey }

// DeleteBookingHandler writes the cancellation snapshot, then removes the booking.
type DeleteBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      support.Clock
}

func (h *DeleteBookingHandler) Handle(ctx context.Context, cmd DeleteBookingCommand) (*dto.Cancellation, error) {
	var result *dto.Cancellation
	err := support.Within(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.ID))
		if err != nil {
			return err
		}
		cancellation := b.Cancel(h.Clock.Now())
		if err := unit.Cancellations().Append(ctx, cancellation); err != nil {
			return err
		}
		if err := unit.Bookings().Delete(ctx, b.ID); err != nil {
			return err
		}
		if err := outbox.Publish(ctx, h.Outbox, h.Encoder, b); err != nil {
			return err
		}
		dir, err := support.Directory(ctx, unit)
		if err != nil {
			return err
		}
		mapped := dto.MapCancellation(cancellation, dir)
		result = &mapped
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ commands.Handler[DeleteBookingCommand, *dto.Cancellation] = (*DeleteBookingHandler)(nil)
