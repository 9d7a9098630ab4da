package houses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse/internal/domain/shared/money"
)

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []HouseID{"house1", "house2", "house3"}, c.IDs())

	h, ok := c.ByID("house3")
	require.True(t, ok)
	assert.Equal(t, int64(5500), h.WeekdayRate.Amount)
	assert.Equal(t, int64(6500), h.WeekendRate.Amount)

	_, ok = c.ByID("house9")
	assert.False(t, ok)

	var nilCatalog *Catalog
	_, ok = nilCatalog.ByID("house1")
	assert.False(t, ok)
	assert.Empty(t, nilCatalog.All())
}

func TestCatalogValidation(t *testing.T) {
	_, err := NewCatalog([]House{{ID: "a"}})
	assert.ErrorIs(t, err, ErrInvalidHouse)

	_, err = NewCatalog([]House{{ID: "a", Name: "A", WeekdayRate: money.UAH(-1)}})
	assert.ErrorIs(t, err, ErrNegativeRate)

	_, err = NewCatalog([]House{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}})
	assert.ErrorIs(t, err, ErrDuplicateHouse)

	c, err := NewCatalog([]House{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}, {ID: "d", Name: "D"}})
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}
