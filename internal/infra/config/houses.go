package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/money"
)

type houseFile struct {
	Houses []houseEntry `yaml:"houses"`
}

type houseEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Accent      string `yaml:"accent"`
	WeekdayRate int64  `yaml:"weekday_rate"`
	WeekendRate int64  `yaml:"weekend_rate"`
}

// LoadCatalog reads the house list from path, or returns the built-in
// houses when path is empty. Rates are expressed in currency.
func LoadCatalog(path, currency string) (*houses.Catalog, error) {
	if path == "" {
		list := houses.DefaultHouses()
		for i := range list {
			list[i].WeekdayRate.Currency = currency
			list[i].WeekendRate.Currency = currency
		}
		return houses.NewCatalog(list)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read houses file: %w", err)
	}
	return ParseCatalog(data, currency)
}

func ParseCatalog(data []byte, currency string) (*houses.Catalog, error) {
	var file houseFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &file); err != nil {
		return nil, fmt.Errorf("decode houses file: %w", err)
	}
	if len(file.Houses) == 0 {
		return nil, fmt.Errorf("houses file lists no houses")
	}
	list := make([]houses.House, 0, len(file.Houses))
	for _, h := range file.Houses {
		list = append(list, houses.House{
			ID:          houses.HouseID(h.ID),
			Name:        h.Name,
			Color:       h.Color,
			Accent:      h.Accent,
			WeekdayRate: money.Money{Amount: h.WeekdayRate, Currency: currency},
			WeekendRate: money.Money{Amount: h.WeekendRate, Currency: currency},
		})
	}
	return houses.NewCatalog(list)
}
