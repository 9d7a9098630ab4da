package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

func d(s string) daterange.Date { return daterange.MustParseDate(s) }

func TestDefaultStayPriceWeekend(t *testing.T) {
	catalog := houses.DefaultCatalog()
	// Friday to Monday: three weekend nights at 6500.
	got := DefaultStayPrice(catalog, "house3", d("2024-03-01"), d("2024-03-04"), nil)
	assert.Equal(t, int64(19500), got.Amount)
	assert.Equal(t, "UAH", got.Currency)
}

func TestDefaultStayPriceMixedWeek(t *testing.T) {
	catalog := houses.DefaultCatalog()
	// Monday..Monday: 4 weekday nights + 3 weekend nights.
	got := DefaultStayPrice(catalog, "house1", d("2024-03-04"), d("2024-03-11"), nil)
	assert.Equal(t, int64(4*13000+3*16000), got.Amount)
}

func TestDefaultStayPriceEdgeCases(t *testing.T) {
	catalog := houses.DefaultCatalog()
	assert.True(t, DefaultStayPrice(catalog, "missing", d("2024-03-01"), d("2024-03-04"), nil).IsZero())
	assert.True(t, DefaultStayPrice(catalog, "house1", daterange.Date{}, d("2024-03-04"), nil).IsZero())
	assert.True(t, DefaultStayPrice(catalog, "house1", d("2024-03-04"), d("2024-03-04"), nil).IsZero())
	assert.True(t, DefaultStayPrice(nil, "house1", d("2024-03-01"), d("2024-03-04"), nil).IsZero())
}

func TestNightRateOverrides(t *testing.T) {
	catalog := houses.DefaultCatalog()
	table := RateTable{}
	table.Set("house2", Mon, 9000)
	table.Set("house2", Sat, -5) // invalid overrides fall back

	assert.Equal(t, int64(9000), NightRate(catalog, "house2", d("2024-03-04"), table).Amount)
	assert.Equal(t, int64(7000), NightRate(catalog, "house2", d("2024-03-05"), table).Amount)
	assert.Equal(t, int64(8000), NightRate(catalog, "house2", d("2024-03-09"), table).Amount)
	assert.Equal(t, int64(8000), NightRate(catalog, "house2", d("2024-03-08"), table).Amount, "friday is a weekend night")
	assert.Equal(t, int64(13000), NightRate(catalog, "house1", d("2024-03-04"), table).Amount)
	assert.True(t, NightRate(catalog, "nope", d("2024-03-04"), table).IsZero())
}

func TestDefaultStayPriceAdditive(t *testing.T) {
	catalog := houses.DefaultCatalog()
	table := DefaultRates(catalog)
	table.Set("house1", Wed, 11111)
	start := d("2024-01-27")
	for i := 0; i < 20; i++ {
		for j := i; j < 20; j++ {
			a, b, c := start, start.AddDays(i), start.AddDays(j)
			whole := DefaultStayPrice(catalog, "house1", a, c, table).Amount
			left := DefaultStayPrice(catalog, "house1", a, b, table).Amount
			right := DefaultStayPrice(catalog, "house1", b, c, table).Amount
			assert.Equal(t, whole, left+right, "%s %s %s", a, b, c)
		}
	}
}

func TestQuoteBreakdown(t *testing.T) {
	engine := Engine{Catalog: houses.DefaultCatalog()}
	q := engine.Quote("house3", d("2024-03-06"), d("2024-03-09"))
	require.Len(t, q.Nights, 3)
	assert.Equal(t, 2, q.WeekdayNights)
	assert.Equal(t, 1, q.WeekendNights)
	assert.Equal(t, int64(5500+5500+6500), q.Total.Amount)
	assert.True(t, q.Nights[2].Weekend)

	clone := q.Copy()
	clone.Nights[0].Rate = money.UAH(1)
	assert.Equal(t, int64(5500), q.Nights[0].Rate.Amount)
}

func TestResolveStayPrice(t *testing.T) {
	computed := money.UAH(19500)
	manual := money.UAH(15000)

	assert.Equal(t, manual, ResolveStayPrice(true, &manual, computed))
	assert.Equal(t, computed, ResolveStayPrice(true, nil, computed))
	assert.Equal(t, computed, ResolveStayPrice(false, &manual, computed), "stale stored value is discarded")
	assert.Equal(t, computed, ResolveStayPrice(false, nil, computed))
}

func TestRateTable(t *testing.T) {
	catalog := houses.DefaultCatalog()
	table := DefaultRates(catalog)
	require.NoError(t, table.Validate())
	rate, ok := table.Rate("house1", Fri)
	require.True(t, ok)
	assert.Equal(t, int64(16000), rate)
	rate, ok = table.Rate("house1", Thu)
	require.True(t, ok)
	assert.Equal(t, int64(13000), rate)

	clone := table.Clone()
	clone.Set("house1", Thu, 1)
	rate, _ = table.Rate("house1", Thu)
	assert.Equal(t, int64(13000), rate)

	bad := RateTable{"house1": {Mon: -1}}
	assert.ErrorIs(t, bad.Validate(), ErrNegativeRate)
	bad = RateTable{"house1": {"funday": 1}}
	assert.ErrorIs(t, bad.Validate(), ErrUnknownDay)

	var empty RateTable
	_, ok = empty.Rate("house1", Mon)
	assert.False(t, ok)
}

func TestDayKeyOf(t *testing.T) {
	monday := d("2024-03-04")
	for i, key := range DayKeys {
		assert.Equal(t, key, DayKeyOf(monday.AddDays(i)))
	}
}
