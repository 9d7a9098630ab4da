package houses

import (
	"errors"
	"strings"

	"guesthouse/internal/domain/shared/money"
)

var (
	ErrHouseNotFound  = errors.New("houses: house not found")
	ErrInvalidHouse   = errors.New("houses: id and name are required")
	ErrNegativeRate   = errors.New("houses: rates cannot be negative")
	ErrDuplicateHouse = errors.New("houses: duplicate house id")
)

type HouseID string

// House is static configuration: display data plus built-in nightly rates.
type House struct {
	ID          HouseID
	Name        string
	Color       string
	Accent      string
	WeekdayRate money.Money
	WeekendRate money.Money
}

func (h House) Validate() error {
	if strings.TrimSpace(string(h.ID)) == "" || strings.TrimSpace(h.Name) == "" {
		return ErrInvalidHouse
	}
	if h.WeekdayRate.Amount < 0 || h.WeekendRate.Amount < 0 {
		return ErrNegativeRate
	}
	return nil
}

// Catalog is the ordered set of configured houses.
type Catalog struct {
	houses []House
	index  map[HouseID]int
}

func NewCatalog(list []House) (*Catalog, error) {
	c := &Catalog{index: make(map[HouseID]int, len(list))}
	for _, h := range list {
		if err := h.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[h.ID]; dup {
			return nil, ErrDuplicateHouse
		}
		c.index[h.ID] = len(c.houses)
		c.houses = append(c.houses, h)
	}
	return c, nil
}

// MustCatalog panics on invalid input; useful in tests and fixtures.
func MustCatalog(list []House) *Catalog {
	c, err := NewCatalog(list)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns houses in configuration order.
func (c *Catalog) All() []House {
	if c == nil {
		return nil
	}
	out := make([]House, len(c.houses))
	copy(out, c.houses)
	return out
}

func (c *Catalog) IDs() []HouseID {
	if c == nil {
		return nil
	}
	out := make([]HouseID, len(c.houses))
	for i, h := range c.houses {
		out[i] = h.ID
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.houses)
}

func (c *Catalog) ByID(id HouseID) (House, bool) {
	if c == nil {
		return House{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return House{}, false
	}
	return c.houses[i], true
}

// DefaultHouses mirrors the reference deployment.
func DefaultHouses() []House {
	return []House{
		{ID: "house1", Name: "Аромат хвої", Color: "#4A6741", Accent: "#6B8F3C", WeekdayRate: money.UAH(13000), WeekendRate: money.UAH(16000)},
		{ID: "house2", Name: "Сонячна оселя", Color: "#8B7D3C", Accent: "#BFA84F", WeekdayRate: money.UAH(7000), WeekendRate: money.UAH(8000)},
		{ID: "house3", Name: "Лісова тиша", Color: "#3D5A4C", Accent: "#5A8A6A", WeekdayRate: money.UAH(5500), WeekendRate: money.UAH(6500)},
	}
}

func DefaultCatalog() *Catalog {
	return MustCatalog(DefaultHouses())
}
