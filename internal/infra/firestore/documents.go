package firestore

import (
	"fmt"
	"math"

	gcfirestore "cloud.google.com/go/firestore"

	"guesthouse/internal/infra/records"
)

// bookingFields is merged into the stored document so fields written by
// other clients survive.
func bookingFields(rec records.Booking) map[string]any {
	comments := make([]map[string]any, 0, len(rec.Comments))
	for _, c := range rec.Comments {
		comments = append(comments, map[string]any{"id": c.ID, "text": c.Text, "date": c.Date})
	}
	fields := map[string]any{
		"houseId":     rec.HouseID,
		"checkIn":     rec.CheckIn,
		"checkOut":    rec.CheckOut,
		"status":      rec.Status,
		"contactId":   rec.ContactID,
		"guests":      rec.Guests,
		"price":       nil,
		"priceManual": rec.PriceManual,
		"notes":       rec.Notes,
		"comments":    comments,
		"version":     rec.Version,
		"updatedAt":   gcfirestore.ServerTimestamp,
	}
	if rec.Price != nil {
		fields["price"] = *rec.Price
		fields["currency"] = rec.Currency
	}
	if !rec.CreatedAt.IsZero() {
		fields["createdAt"] = rec.CreatedAt
	}
	return fields
}

func contactFields(rec records.Contact) map[string]any {
	fields := map[string]any{
		"name":      rec.Name,
		"phone":     rec.Phone,
		"notes":     rec.Notes,
		"updatedAt": gcfirestore.ServerTimestamp,
	}
	if !rec.CreatedAt.IsZero() {
		fields["createdAt"] = rec.CreatedAt
	}
	return fields
}

func cancellationFields(rec records.Cancellation) map[string]any {
	fields := bookingFields(rec.Booking)
	fields["bookingId"] = rec.BookingID
	fields["cancelMonth"] = rec.CancelMonth
	fields["cancelledAt"] = gcfirestore.ServerTimestamp
	fields["cancelledAtISO"] = rec.CancelledAtISO
	return fields
}

func rateFields(rates records.Rates) map[string]any {
	fields := make(map[string]any, len(rates)+2)
	for house, days := range rates {
		row := make(map[string]any, len(days))
		for day, rate := range days {
			row[day] = rate
		}
		fields[house] = row
	}
	fields["_type"] = ratesType
	fields["updatedAt"] = gcfirestore.ServerTimestamp
	return fields
}

// parseRates reads the rates document; metadata fields are ignored and
// numbers may arrive as integers or doubles.
func parseRates(data map[string]any) (records.Rates, error) {
	out := make(records.Rates, len(data))
	for house, raw := range data {
		switch house {
		case "_type", "updatedAt", "createdAt":
			continue
		}
		days, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		row := make(map[string]int64, len(days))
		for day, v := range days {
			n, err := toInt64(v)
			if err != nil {
				return nil, fmt.Errorf("firestore: rate %s/%s: %w", house, day, err)
			}
			row[day] = n
		}
		out[house] = row
	}
	return out, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(math.Round(n)), nil
	default:
		return 0, fmt.Errorf("unexpected %T", v)
	}
}
