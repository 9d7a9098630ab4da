package settings

import (
	"context"
	"fmt"

	"guesthouse/internal/app/dto"
	"guesthouse/internal/app/handlers/support"
	"guesthouse/internal/app/uow"
	"guesthouse/internal/domain/houses"
)

const (
	saveRatesKey  = "settings.rates.save"
	getRatesKey   = "settings.rates.get"
	listHousesKey = "settings.houses"
)

// SaveRatesCommand replaces the whole rate table.
type SaveRatesCommand struct {
	Rates dto.RateTable `json:"rates" validate:"required"`
}

func (c SaveRatesCommand) Key() string { return saveRatesKey }

type GetRatesQuery struct{}

func (q GetRatesQuery) Key() string { return getRatesKey }

type ListHousesQuery struct{}

func (q ListHousesQuery) Key() string { return listHousesKey }

type Handler struct {
	UoWFactory uow.UoWFactory
	Catalog    *houses.Catalog
}

func (h *Handler) SaveRates(ctx context.Context, cmd SaveRatesCommand) (*dto.RateTable, error) {
	table, err := cmd.Rates.ToDomain()
	if err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	for id := range table {
		if _, ok := h.Catalog.ByID(id); !ok {
			return nil, fmt.Errorf("%w: %s", houses.ErrHouseNotFound, id)
		}
	}
	err = support.Within(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		return unit.Rates().SaveRates(ctx, table)
	})
	if err != nil {
		return nil, err
	}
	out := dto.MapRates(table)
	return &out, nil
}

// GetRates returns the saved table, or the catalog defaults before the first save.
func (h *Handler) GetRates(ctx context.Context, _ GetRatesQuery) (*dto.RateTable, error) {
	unit, execCtx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer release()

	table, err := support.RateTable(execCtx, unit, h.Catalog)
	if err != nil {
		return nil, err
	}
	out := dto.MapRates(table)
	return &out, nil
}

func (h *Handler) ListHouses(context.Context, ListHousesQuery) ([]dto.House, error) {
	return dto.MapHouses(h.Catalog), nil
}

