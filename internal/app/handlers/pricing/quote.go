package pricing

import (
	"context"

	"guesthouse/internal/app/dto"
	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/queries"
	"guesthouse/internal/app/uow"
	"guesthouse/internal/domain/houses"
	domainpricing "guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
)

const quoteKey = "pricing.quote"

// QuoteQuery prices a prospective stay night by night. A check-out on or
// before check-in yields an empty quote.
type QuoteQuery struct {
	HouseID  string `json:"house_id" validate:"required"`
	CheckIn  string `json:"check_in" validate:"required,civildate"`
	CheckOut string `json:"check_out" validate:"required,civildate"`
}

func (q QuoteQuery) Key() string { return quoteKey }

type QuoteHandler struct {
	UoWFactory uow.UoWFactory
	Catalog    *houses.Catalog
}

func (h *QuoteHandler) Handle(ctx context.Context, q QuoteQuery) (*dto.Quote, error) {
	houseID := houses.HouseID(q.HouseID)
	if _, ok := h.Catalog.ByID(houseID); !ok {
		return nil, houses.ErrHouseNotFound
	}
	checkIn, err := daterange.ParseDate(q.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := daterange.ParseDate(q.CheckOut)
	if err != nil {
		return nil, err
	}

	unit, execCtx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer release()

	rates, err := support.RateTable(execCtx, unit, h.Catalog)
	if err != nil {
		return nil, err
	}
	out := dto.MapQuote(checkIn.String(), checkOut.String(), domainpricing.Quote(h.Catalog, houseID, checkIn, checkOut, rates))
	return &out, nil
}

var _ queries.Handler[QuoteQuery, *dto.Quote] = (*QuoteHandler)(nil)
