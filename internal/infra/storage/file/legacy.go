package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"guesthouse/internal/app/migration"
	"guesthouse/internal/infra/records"
)

// LegacyKey is the browser storage key the old single-page app used.
const LegacyKey = "dusha-lisu-v3"

type legacyDocument struct {
	Bookings []records.Booking `json:"bookings"`
	Contacts []records.Contact `json:"contacts"`
}

// LegacyReader reads an export of the browser store. Both the bare
// {"bookings":[],"contacts":[]} value and a whole storage dump keyed by
// LegacyKey (with the value as a JSON string) are accepted.
type LegacyReader struct {
	Path     string
	Currency string
	Logger   *slog.Logger
}

func (r LegacyReader) ReadLegacy(ctx context.Context) (migration.LegacyData, error) {
	var out migration.LegacyData
	raw, err := os.ReadFile(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("legacy: read %s: %w", r.Path, err)
	}
	doc, err := parseLegacy(raw)
	if err != nil {
		return out, fmt.Errorf("legacy: decode %s: %w", r.Path, err)
	}
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	for _, rec := range doc.Contacts {
		if rec.ID == "" {
			continue
		}
		out.Contacts = append(out.Contacts, rec.ToContact())
	}
	for _, rec := range doc.Bookings {
		b, err := rec.ToBooking(r.Currency)
		if err != nil {
			log.WarnContext(ctx, "legacy: skipping booking", "id", rec.ID, "err", err)
			continue
		}
		out.Bookings = append(out.Bookings, b)
	}
	return out, nil
}

func parseLegacy(raw []byte) (legacyDocument, error) {
	var doc legacyDocument
	if len(raw) == 0 {
		return doc, nil
	}
	var dump map[string]json.RawMessage
	if err := json.Unmarshal(raw, &dump); err != nil {
		return doc, err
	}
	if inner, ok := dump[LegacyKey]; ok {
		var s string
		if err := json.Unmarshal(inner, &s); err == nil {
			inner = json.RawMessage(s)
		}
		raw = inner
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

var _ migration.LegacyReader = LegacyReader{}
