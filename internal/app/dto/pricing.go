package dto

import (
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/pricing"
)

type NightPrice struct {
	Date    string   `json:"date"`
	Weekend bool     `json:"weekend"`
	Rate    MoneyDTO `json:"rate"`
}

type Quote struct {
	HouseID       string       `json:"house_id"`
	CheckIn       string       `json:"check_in"`
	CheckOut      string       `json:"check_out"`
	Nights        []NightPrice `json:"nights"`
	WeekendNights int          `json:"weekend_nights"`
	WeekdayNights int          `json:"weekday_nights"`
	Total         MoneyDTO     `json:"total"`
}

func MapQuote(checkIn, checkOut string, q pricing.PriceBreakdown) Quote {
	out := Quote{
		HouseID:       string(q.HouseID),
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        make([]NightPrice, 0, len(q.Nights)),
		WeekendNights: q.WeekendNights,
		WeekdayNights: q.WeekdayNights,
		Total:         MapMoney(q.Total),
	}
	for _, n := range q.Nights {
		out.Nights = append(out.Nights, NightPrice{Date: n.Night.String(), Weekend: n.Weekend, Rate: MapMoney(n.Rate)})
	}
	return out
}

// RateTable is keyed by house id, then by day key (mon..sun).
type RateTable map[string]map[string]int64

func MapRates(t pricing.RateTable) RateTable {
	out := RateTable{}
	for house, days := range t {
		row := make(map[string]int64, len(days))
		for day, rate := range days {
			row[string(day)] = rate
		}
		out[string(house)] = row
	}
	return out
}

// ToDomain parses day keys; unknown keys fail.
func (r RateTable) ToDomain() (pricing.RateTable, error) {
	out := pricing.RateTable{}
	for house, days := range r {
		for raw, rate := range days {
			day, err := pricing.ParseDayKey(raw)
			if err != nil {
				return nil, err
			}
			out.Set(houses.HouseID(house), day, rate)
		}
	}
	return out, nil
}

type House struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Accent      string   `json:"accent"`
	WeekdayRate MoneyDTO `json:"weekday_rate"`
	WeekendRate MoneyDTO `json:"weekend_rate"`
}

func MapHouses(c *houses.Catalog) []House {
	out := make([]House, 0, c.Len())
	for _, h := range c.All() {
		out = append(out, House{
			ID:          string(h.ID),
			Name:        h.Name,
			Color:       h.Color,
			Accent:      h.Accent,
			WeekdayRate: MapMoney(h.WeekdayRate),
			WeekendRate: MapMoney(h.WeekendRate),
		})
	}
	return out
}
