package pricing

import (
	"context"

	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

// NightPrice is one line of a stay quote.
type NightPrice struct {
	Night   daterange.Date
	Weekend bool
	Rate    money.Money
}

type PriceBreakdown struct {
	HouseID       houses.HouseID
	Nights        []NightPrice
	WeekendNights int
	WeekdayNights int
	Total         money.Money
}

func (p PriceBreakdown) Copy() PriceBreakdown {
	clone := p
	clone.Nights = append([]NightPrice(nil), p.Nights...)
	return clone
}

// Engine computes default prices from the house catalog and a rate table.
type Engine struct {
	Catalog *houses.Catalog
	Rates   RateTable
}

// NightRate prices a single night. Unknown houses cost nothing.
func (e Engine) NightRate(houseID houses.HouseID, night daterange.Date) money.Money {
	return NightRate(e.Catalog, houseID, night, e.Rates)
}

func (e Engine) DefaultStayPrice(houseID houses.HouseID, checkIn, checkOut daterange.Date) money.Money {
	return DefaultStayPrice(e.Catalog, houseID, checkIn, checkOut, e.Rates)
}

func (e Engine) Quote(houseID houses.HouseID, checkIn, checkOut daterange.Date) PriceBreakdown {
	return Quote(e.Catalog, houseID, checkIn, checkOut, e.Rates)
}

func NightRate(catalog *houses.Catalog, houseID houses.HouseID, night daterange.Date, table RateTable) money.Money {
	house, ok := catalog.ByID(houseID)
	if !ok {
		return money.UAH(0)
	}
	currency := house.WeekdayRate.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	if rate, ok := table.Rate(houseID, DayKeyOf(night)); ok {
		return money.Money{Amount: rate, Currency: currency}
	}
	if daterange.IsWeekend(night) {
		return money.Money{Amount: house.WeekendRate.Amount, Currency: currency}
	}
	return money.Money{Amount: house.WeekdayRate.Amount, Currency: currency}
}

// DefaultStayPrice sums NightRate over [checkIn, checkOut). It is zero for an
// unknown house or when either date is missing.
func DefaultStayPrice(catalog *houses.Catalog, houseID houses.HouseID, checkIn, checkOut daterange.Date, table RateTable) money.Money {
	return Quote(catalog, houseID, checkIn, checkOut, table).Total
}

func Quote(catalog *houses.Catalog, houseID houses.HouseID, checkIn, checkOut daterange.Date, table RateTable) PriceBreakdown {
	out := PriceBreakdown{HouseID: houseID, Total: money.UAH(0)}
	house, ok := catalog.ByID(houseID)
	if !ok || checkIn.IsZero() || checkOut.IsZero() {
		return out
	}
	if house.WeekdayRate.Currency != "" {
		out.Total.Currency = house.WeekdayRate.Currency
	}
	for _, night := range daterange.NightsOf(checkIn, checkOut) {
		rate := NightRate(catalog, houseID, night, table)
		weekend := daterange.IsWeekend(night)
		if weekend {
			out.WeekendNights++
		} else {
			out.WeekdayNights++
		}
		out.Nights = append(out.Nights, NightPrice{Night: night, Weekend: weekend, Rate: rate})
		out.Total.Amount += rate.Amount
	}
	return out
}

// ResolveStayPrice applies the save-time policy: a manual price is kept when
// present, anything else is replaced by the computed default.
func ResolveStayPrice(manual bool, stored *money.Money, computed money.Money) money.Money {
	if manual && stored != nil {
		return *stored
	}
	return computed
}

// RateStore persists the rate table document.
type RateStore interface {
	Rates(ctx context.Context) (RateTable, error)
	SaveRates(ctx context.Context, table RateTable) error
}
