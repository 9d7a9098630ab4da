package analytics

import (
	"context"
	"time"

	"guesthouse/internal/app/dto"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
)

const (
	monthStatsKey     = "analytics.month"
	portfolioMonthKey = "analytics.portfolio.month"
	houseYearKey      = "analytics.year"
	portfolioYearKey  = "analytics.portfolio.year"
)

type MonthStatsQuery struct {
	HouseID string `json:"house_id" validate:"required"`
	Month   string `json:"month" validate:"required,monthkey"`
}

func (q MonthStatsQuery) Key() string { return monthStatsKey }

type PortfolioMonthQuery struct {
	Month string `json:"month" validate:"required,monthkey"`
}

func (q PortfolioMonthQuery) Key() string { return portfolioMonthKey }

type HouseYearQuery struct {
	HouseID string `json:"house_id" validate:"required"`
	Year    int    `json:"year" validate:"gte=1970,lte=9999"`
}

func (q HouseYearQuery) Key() string { return houseYearKey }

type PortfolioYearQuery struct {
	Year int `json:"year" validate:"gte=1970,lte=9999"`
}

func (q PortfolioYearQuery) Key() string { return portfolioYearKey }

// Handler recomputes every report from a fresh dataset.
type Handler struct {
	Source DatasetSource
}

func (h *Handler) Month(ctx context.Context, q MonthStatsQuery) (*dto.MonthStats, error) {
	year, month, err := parseMonth(q.Month)
	if err != nil {
		return nil, err
	}
	ds, err := h.Source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	houseID := houses.HouseID(q.HouseID)
	if _, ok := ds.Catalog.ByID(houseID); !ok {
		return nil, houses.ErrHouseNotFound
	}
	out := dto.MapMonthStats(ds.Month(houseID, year, month))
	return &out, nil
}

func (h *Handler) PortfolioMonth(ctx context.Context, q PortfolioMonthQuery) (*dto.PortfolioMonth, error) {
	year, month, err := parseMonth(q.Month)
	if err != nil {
		return nil, err
	}
	ds, err := h.Source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	out := dto.MapPortfolioMonth(ds.PortfolioMonth(year, month))
	return &out, nil
}

func (h *Handler) HouseYear(ctx context.Context, q HouseYearQuery) (*dto.HouseYear, error) {
	ds, err := h.Source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	houseID := houses.HouseID(q.HouseID)
	if _, ok := ds.Catalog.ByID(houseID); !ok {
		return nil, houses.ErrHouseNotFound
	}
	out := dto.MapHouseYear(ds.HouseYear(houseID, q.Year))
	return &out, nil
}

func (h *Handler) PortfolioYear(ctx context.Context, q PortfolioYearQuery) (*dto.PortfolioYear, error) {
	ds, err := h.Source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	out := dto.MapPortfolioYear(ds.PortfolioYear(q.Year))
	return &out, nil
}

func parseMonth(key string) (int, time.Month, error) {
	first, err := daterange.ParseDate(key + "-01")
	if err != nil {
		return 0, 0, err
	}
	return first.Year, first.Month, nil
}
