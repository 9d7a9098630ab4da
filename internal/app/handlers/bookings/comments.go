package bookings

import (
	"context"

	"guesthouse/internal/app/dto"
	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
)

const (
	addCommentKey    = "bookings.comment.add"
	removeCommentKey = "bookings.comment.remove"
)

type AddCommentCommand struct {
	BookingID string `json:"booking_id" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

func (c AddCommentCommand) Key() string { return addCommentKey }

type RemoveCommentCommand struct {
	BookingID string `json:"booking_id" validate:"required"`
	CommentID string `json:"comment_id" validate:"required"`
}

func (c RemoveCommentCommand) Key() string { return removeCommentKey }

// CommentsHandler serves both comment commands.
type CommentsHandler struct {
	UoWFactory uow.UoWFactory
	Clock      support.Clock
	IDs        support.IDs
}

func (h *CommentsHandler) Add(ctx context.Context, cmd AddCommentCommand) (*dto.Booking, error) {
	return h.mutate(ctx, cmd.BookingID, func(b *domainbooking.Booking) error {
		_, err := b.AddComment(h.IDs.New(), cmd.Text, h.Clock.Now())
		return err
	})
}

func (h *CommentsHandler) Remove(ctx context.Context, cmd RemoveCommentCommand) (*dto.Booking, error) {
	return h.mutate(ctx, cmd.BookingID, func(b *domainbooking.Booking) error {
		return b.RemoveComment(cmd.CommentID, h.Clock.Now())
	})
}

func (h *CommentsHandler) mutate(ctx context.Context, id string, change func(*domainbooking.Booking) error) (*dto.Booking, error) {
	var result *dto.Booking
	err := support.Within(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(id))
		if err != nil {
			return err
		}
		if err := change(b); err != nil {
			return err
		}
		if err := unit.Bookings().Save(ctx, b); err != nil {
			return err
		}
		dir, err := support.Directory(ctx, unit)
		if err != nil {
			return err
		}
		mapped := dto.MapBooking(b, dir)
		result = &mapped
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

