package availability

import (
	"context"

	"guesthouse/internal/app/dto"
	"guesthouse/internal/app/queries"
	"guesthouse/internal/app/uow"
	domainavailability "guesthouse/internal/domain/availability"
	domainbooking "guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/houses"
)

const occupiedNightsKey = "availability.occupied"

// OccupiedNightsQuery lists nights already taken in a house. The booking
// being edited is excluded so its own nights stay selectable.
type OccupiedNightsQuery struct {
	HouseID          string `json:"house_id" validate:"required"`
	ExcludeBookingID string `json:"exclude_booking_id"`
}

func (q OccupiedNightsQuery) Key() string { return occupiedNightsKey }

type OccupiedNightsHandler struct {
	UoWFactory uow.UoWFactory
	Catalog    *houses.Catalog
}

func (h *OccupiedNightsHandler) Handle(ctx context.Context, q OccupiedNightsQuery) (*dto.OccupiedNights, error) {
	houseID := houses.HouseID(q.HouseID)
	if _, ok := h.Catalog.ByID(houseID); !ok {
		return nil, houses.ErrHouseNotFound
	}
	unit, execCtx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer release()

	all, err := unit.Bookings().List(execCtx)
	if err != nil {
		return nil, err
	}
	nights := domainavailability.OccupiedNights(all, houseID, domainbooking.BookingID(q.ExcludeBookingID))
	return &dto.OccupiedNights{HouseID: q.HouseID, Nights: nights.Strings()}, nil
}

var _ queries.Handler[OccupiedNightsQuery, *dto.OccupiedNights] = (*OccupiedNightsHandler)(nil)
