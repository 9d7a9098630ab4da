package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
	"guesthouse/internal/domain/shared/daterange"
	"guesthouse/internal/domain/shared/money"
)

func stay(t *testing.T) *domainbooking.Booking {
	t.Helper()
	price := money.UAH(19500)
	rng, err := daterange.Parse("2024-03-01", "2024-03-04")
	require.NoError(t, err)
	b, err := domainbooking.NewStay(domainbooking.StayParams{
		ID:        "b1",
		HouseID:   "house3",
		Range:     rng,
		Status:    domainbooking.StatusBooked,
		ContactID: "c1",
		Guests:    2,
		Price:     &price,
		Now:       time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = b.AddComment("k1", "late arrival", time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return b
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "guesthouse.json")

	store, err := Open(path, money.DefaultCurrency, nil)
	require.NoError(t, err)

	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Contacts().Save(ctx, &domaincontacts.Contact{ID: "c1", Name: "Olena", Phone: "+380"}))
	require.NoError(t, unit.Bookings().Save(ctx, stay(t)))
	rates := domainpricing.RateTable{}
	rates.Set("house3", domainpricing.Thu, 6000)
	require.NoError(t, unit.Rates().SaveRates(ctx, rates))
	require.NoError(t, unit.Commit(ctx))

	reopened, err := Open(path, money.DefaultCurrency, nil)
	require.NoError(t, err)
	data := reopened.Export()
	require.Len(t, data.Bookings, 1)
	got := data.Bookings[0]
	assert.Equal(t, domainbooking.BookingID("b1"), got.ID)
	assert.Equal(t, "2024-03-01", got.Range.CheckIn.String())
	assert.Equal(t, domaincontacts.ContactID("c1"), got.ContactID())
	assert.Equal(t, 2, got.Guests())
	require.NotNil(t, got.Price)
	assert.Equal(t, int64(19500), got.Price.Amount)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "late arrival", got.Comments[0].Text)

	require.Len(t, data.Contacts, 1)
	assert.Equal(t, "Olena", data.Contacts[0].Name)
	rate, ok := data.Rates.Rate("house3", domainpricing.Thu)
	assert.True(t, ok)
	assert.Equal(t, int64(6000), rate)
}

func TestStoreWritesCamelCaseDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "guesthouse.json")
	store, err := Open(path, money.DefaultCurrency, nil)
	require.NoError(t, err)

	unit, _ := store.Begin(ctx, uow.TxOptions{})
	b := stay(t)
	require.NoError(t, unit.Bookings().Save(ctx, b))
	require.NoError(t, unit.Cancellations().Append(ctx, b.Cancel(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, unit.Bookings().Delete(ctx, "b1"))
	require.NoError(t, unit.Commit(ctx))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Empty(t, doc["bookings"])
	cancels, ok := doc["cancellations"].([]any)
	require.True(t, ok)
	require.Len(t, cancels, 1)
	first := cancels[0].(map[string]any)
	assert.Equal(t, "b1", first["bookingId"])
	assert.Equal(t, "2024-03", first["cancelMonth"])
	assert.Equal(t, "house3", first["houseId"])
	assert.NotEmpty(t, first["cancelledAtISO"])
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := Open(path, money.DefaultCurrency, nil)
	assert.Error(t, err)
}

func TestOpenKeepsUnreadableRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mixed.json")
	body := `{"bookings":[
		{"id":"ok","houseId":"house1","checkIn":"2024-01-01","checkOut":"2024-01-02","status":"unavailable"},
		{"id":"legacy","houseId":"house1","checkIn":"2024-3-1","checkOut":"2024-03-02","status":"booked"},
		{"id":"dotted","houseId":"house1","checkIn":"01.01.2024","checkOut":"2024-01-02","status":"booked"}
	],"contacts":[],"cancellations":[
		{"bookingId":"gone","houseId":"house2","checkIn":"someday","checkOut":"2024-01-02","cancelMonth":"2024-01"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	store, err := Open(path, money.DefaultCurrency, nil)
	require.NoError(t, err)
	data := store.Export()
	require.Len(t, data.Bookings, 1)
	assert.Equal(t, domainbooking.BookingID("ok"), data.Bookings[0].ID)
	assert.Empty(t, data.Cancellations)

	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Contacts().Save(ctx, &domaincontacts.Contact{ID: "c9", Name: "Petro"}))
	require.NoError(t, unit.Commit(ctx))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Bookings []struct {
			ID      string `json:"id"`
			CheckIn string `json:"checkIn"`
		} `json:"bookings"`
		Contacts      []map[string]any `json:"contacts"`
		Cancellations []map[string]any `json:"cancellations"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	ids := map[string]string{}
	for _, b := range doc.Bookings {
		ids[b.ID] = b.CheckIn
	}
	assert.Equal(t, map[string]string{"ok": "2024-01-01", "legacy": "2024-3-1", "dotted": "01.01.2024"}, ids)
	assert.Len(t, doc.Contacts, 1)
	require.Len(t, doc.Cancellations, 1)
	assert.Equal(t, "someday", doc.Cancellations[0]["checkIn"])
}

func TestResavedRecordReplacesUnreadableOne(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mixed.json")
	body := `{"bookings":[{"id":"b1","houseId":"house3","checkIn":"2024-3-1","checkOut":"2024-03-04","status":"booked"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	store, err := Open(path, money.DefaultCurrency, nil)
	require.NoError(t, err)
	unit, _ := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, unit.Bookings().Save(ctx, stay(t)))
	require.NoError(t, unit.Commit(ctx))

	reopened, err := Open(path, money.DefaultCurrency, nil)
	require.NoError(t, err)
	data := reopened.Export()
	require.Len(t, data.Bookings, 1)
	assert.Equal(t, "2024-03-01", data.Bookings[0].Range.CheckIn.String())
	assert.Empty(t, reopened.kept.bookings)
}

func TestFailedWriteAbortsCommit(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "guesthouse.json")
	store, err := Open(path, money.DefaultCurrency, nil)
	require.NoError(t, err)

	// a directory in place of the data file makes the rename fail
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), nil, 0o600))

	unit, _ := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, unit.Bookings().Save(ctx, stay(t)))
	assert.Error(t, unit.Commit(ctx))
	assert.Empty(t, store.Export().Bookings, "nothing applied when the file was not written")
	assert.Error(t, store.Flush(ctx))
}

func TestLegacyReader(t *testing.T) {
	ctx := context.Background()
	inner := `{"bookings":[{"id":"b1","houseId":"house2","checkIn":"2023-07-01","checkOut":"2023-07-03","status":"booked","contactId":"c1","guests":3,"price":14000,"comments":[{"id":"k","text":"hi","date":"2023-06-01T10:00:00.000Z"}]}],"contacts":[{"id":"c1","name":" Ivan ","phone":"123"}]}`
	dump, err := json.Marshal(map[string]string{LegacyKey: inner})
	require.NoError(t, err)

	cases := map[string][]byte{
		"bare document": []byte(inner),
		"storage dump":  dump,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "legacy.json")
			require.NoError(t, os.WriteFile(path, body, 0o600))

			data, err := LegacyReader{Path: path, Currency: "UAH"}.ReadLegacy(ctx)
			require.NoError(t, err)
			require.Len(t, data.Contacts, 1)
			assert.Equal(t, "Ivan", data.Contacts[0].Name)
			require.Len(t, data.Bookings, 1)
			b := data.Bookings[0]
			assert.Equal(t, 3, b.Guests())
			require.NotNil(t, b.Price)
			assert.Equal(t, money.UAH(14000), *b.Price)
			require.Len(t, b.Comments, 1)
			assert.Equal(t, 2023, b.Comments[0].At.Year())
		})
	}
}

func TestLegacyReaderMissingFile(t *testing.T) {
	data, err := LegacyReader{Path: filepath.Join(t.TempDir(), "none.json")}.ReadLegacy(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.Bookings)
	assert.Empty(t, data.Contacts)
}
