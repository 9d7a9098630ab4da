package daterange

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		d, err := ParseDate("2024-02-29")
		require.NoError(t, err)
		assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d)
		assert.Equal(t, "2024-02-29", d.String())
	})

	for _, raw := range []string{"", "2024/01/15", "2024-1-5", "2023-02-29", "2024-13-01", "2024-01-15T00:00:00Z", "abcd-ef-gh"} {
		t.Run("Invalid "+raw, func(t *testing.T) {
			_, err := ParseDate(raw)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}

	t.Run("Must panics", func(t *testing.T) {
		assert.Panics(t, func() { MustParseDate("nope") })
	})
}

func TestFormatDateRoundTrip(t *testing.T) {
	start := MustParseDate("2023-12-25")
	for i := 0; i < 800; i++ {
		d := start.AddDays(i)
		parsed, err := ParseDate(FormatDate(d))
		require.NoError(t, err)
		assert.True(t, parsed.Equal(d))
	}
}

func TestNightsOf(t *testing.T) {
	t.Run("Across month and leap day", func(t *testing.T) {
		nights := NightStrings(MustParseDate("2024-02-28"), MustParseDate("2024-03-02"))
		assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, nights)
	})

	t.Run("Empty when checkout not after checkin", func(t *testing.T) {
		d := MustParseDate("2024-05-10")
		assert.Empty(t, NightsOf(d, d))
		assert.Empty(t, NightsOf(d, d.AddDays(-3)))
	})

	t.Run("Length equals days between", func(t *testing.T) {
		base := MustParseDate("2023-10-20")
		for span := 1; span < 120; span += 7 {
			out := base.AddDays(span)
			assert.Len(t, NightsOf(base, out), DaysBetween(base, out))
		}
	})

	t.Run("Across year end", func(t *testing.T) {
		nights := NightStrings(MustParseDate("2024-12-30"), MustParseDate("2025-01-02"))
		assert.Equal(t, []string{"2024-12-30", "2024-12-31", "2025-01-01"}, nights)
	})
}

func TestIsWeekend(t *testing.T) {
	// 2024-03-04 is a Monday.
	monday := MustParseDate("2024-03-04")
	expected := []bool{false, false, false, false, true, true, true}
	for i, want := range expected {
		d := monday.AddDays(i)
		assert.Equal(t, want, IsWeekend(d), d.String())
	}
	for i := 0; i < 60; i++ {
		d := monday.AddDays(i)
		wd := d.Weekday()
		assert.Equal(t, wd == time.Friday || wd == time.Saturday || wd == time.Sunday, IsWeekend(d))
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 3, DaysBetween(MustParseDate("2024-03-01"), MustParseDate("2024-03-04")))
	assert.Equal(t, -3, DaysBetween(MustParseDate("2024-03-04"), MustParseDate("2024-03-01")))
	assert.Equal(t, 366, DaysBetween(MustParseDate("2024-01-01"), MustParseDate("2025-01-01")))
}

func TestCalendarLengths(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, DaysInMonth(tt.year, tt.month), "%d-%d", tt.year, tt.month)
	}
	assert.Equal(t, 366, DaysInYear(2024))
	assert.Equal(t, 365, DaysInYear(2023))
	assert.Equal(t, 366, DaysInYear(2000))
	assert.Equal(t, 365, DaysInYear(2100))
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		CheckIn Date `json:"check_in"`
	}
	raw, err := json.Marshal(payload{CheckIn: MustParseDate("2024-07-09")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"check_in":"2024-07-09"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"check_in":"2025-01-31"}`), &decoded))
	assert.Equal(t, "2025-01-31", decoded.CheckIn.String())

	assert.Error(t, json.Unmarshal([]byte(`{"check_in":"31.01.2025"}`), &decoded))
}
