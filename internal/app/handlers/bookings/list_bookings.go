package bookings

import (
	"context"
	"sort"

	"guesthouse/internal/app/dto"
	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
)

const (
	listBookingsKey      = "bookings.list"
	getBookingKey        = "bookings.get"
	listCancellationsKey = "bookings.cancellations"
)

// ListBookingsQuery filters by house and by month (YYYY-MM) when set. A
// month filter keeps every booking with a night inside that month.
type ListBookingsQuery struct {
	HouseID string `json:"house_id"`
	Month   string `json:"month" validate:"omitempty,monthkey"`
}

func (q ListBookingsQuery) Key() string { return listBookingsKey }

type GetBookingQuery struct {
	ID string `json:"id" validate:"required"`
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type ListCancellationsQuery struct {
	Month string `json:"month" validate:"omitempty,monthkey"`
}

func (q ListCancellationsQuery) Key() string { return listCancellationsKey }

type QueryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QueryHandler) List(ctx context.Context, q ListBookingsQuery) (*dto.BookingCollection, error) {
	unit, execCtx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer release()

	all, err := unit.Bookings().List(execCtx)
	if err != nil {
		return nil, err
	}
	dir, err := support.Directory(execCtx, unit)
	if err != nil {
		return nil, err
	}

	var window *daterange.Window
	if q.Month != "" {
		first, err := daterange.ParseDate(q.Month + "-01")
		if err != nil {
			return nil, err
		}
		w := daterange.MonthWindow(first.Year, first.Month)
		window = &w
	}

	filtered := make([]*domainbooking.Booking, 0, len(all))
	for _, b := range all {
		if q.HouseID != "" && b.HouseID != houses.HouseID(q.HouseID) {
			continue
		}
		if window != nil && !window.Intersects(b.Range) {
			continue
		}
		filtered = append(filtered, b)
	}
	support.SortByCheckIn(filtered)

	out := &dto.BookingCollection{Items: make([]dto.Booking, 0, len(filtered))}
	for _, b := range filtered {
		out.Items = append(out.Items, dto.MapBooking(b, dir))
	}
	return out, nil
}

func (h *QueryHandler) Get(ctx context.Context, q GetBookingQuery) (*dto.Booking, error) {
	unit, execCtx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(q.ID))
	if err != nil {
		return nil, err
	}
	dir, err := support.Directory(execCtx, unit)
	if err != nil {
		return nil, err
	}
	out := dto.MapBooking(b, dir)
	return &out, nil
}

// Cancellations lists snapshots, most recent first.
func (h *QueryHandler) Cancellations(ctx context.Context, q ListCancellationsQuery) (*dto.CancellationCollection, error) {
	unit, execCtx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer release()

	all, err := unit.Cancellations().List(execCtx)
	if err != nil {
		return nil, err
	}
	dir, err := support.Directory(execCtx, unit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CancelledAt.After(all[j].CancelledAt) })

	out := &dto.CancellationCollection{Items: make([]dto.Cancellation, 0, len(all))}
	for _, c := range all {
		if q.Month != "" && c.CancelMonth != q.Month {
			continue
		}
		out.Items = append(out.Items, dto.MapCancellation(c, dir))
	}
	return out, nil
}

