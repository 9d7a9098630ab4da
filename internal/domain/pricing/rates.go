package pricing

import (
	"errors"
	"fmt"
	"time"

	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
)

var (
	ErrNegativeRate = errors.New("pricing: rates cannot be negative")
	ErrUnknownDay   = errors.New("pricing: unknown weekday key")
)

// DayKey identifies a weekday column of the rate table.
type DayKey string

const (
	Mon DayKey = "mon"
	Tue DayKey = "tue"
	Wed DayKey = "wed"
	Thu DayKey = "thu"
	Fri DayKey = "fri"
	Sat DayKey = "sat"
	Sun DayKey = "sun"
)

// DayKeys lists weekday keys Monday first.
var DayKeys = []DayKey{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

func DayKeyOf(d daterange.Date) DayKey {
	switch d.Weekday() {
	case time.Monday:
		return Mon
	case time.Tuesday:
		return Tue
	case time.Wednesday:
		return Wed
	case time.Thursday:
		return Thu
	case time.Friday:
		return Fri
	case time.Saturday:
		return Sat
	default:
		return Sun
	}
}

func ParseDayKey(raw string) (DayKey, error) {
	for _, k := range DayKeys {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDay, raw)
}

// RateTable holds per-house, per-weekday nightly overrides in whole currency units.
// Missing houses or days fall back to the house's built-in rates.
type RateTable map[houses.HouseID]map[DayKey]int64

// Rate returns the override for a house and weekday, if one is set.
func (t RateTable) Rate(house houses.HouseID, day DayKey) (int64, bool) {
	if t == nil {
		return 0, false
	}
	days, ok := t[house]
	if !ok {
		return 0, false
	}
	rate, ok := days[day]
	if !ok || rate < 0 {
		return 0, false
	}
	return rate, true
}

func (t RateTable) Set(house houses.HouseID, day DayKey, rate int64) {
	days, ok := t[house]
	if !ok {
		days = make(map[DayKey]int64, len(DayKeys))
		t[house] = days
	}
	days[day] = rate
}

func (t RateTable) Validate() error {
	for house, days := range t {
		for day, rate := range days {
			if _, err := ParseDayKey(string(day)); err != nil {
				return err
			}
			if rate < 0 {
				return fmt.Errorf("%w: %s/%s", ErrNegativeRate, house, day)
			}
		}
	}
	return nil
}

func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for house, days := range t {
		cp := make(map[DayKey]int64, len(days))
		for k, v := range days {
			cp[k] = v
		}
		out[house] = cp
	}
	return out
}

// DefaultRates expands each house's weekday/weekend rates into a full table,
// which is what the settings screen shows before anything is saved.
func DefaultRates(catalog *houses.Catalog) RateTable {
	out := make(RateTable, catalog.Len())
	for _, h := range catalog.All() {
		for _, day := range DayKeys {
			rate := h.WeekdayRate.Amount
			if day == Fri || day == Sat || day == Sun {
				rate = h.WeekendRate.Amount
			}
			out.Set(h.ID, day, rate)
		}
	}
	return out
}
