package analytics

import (
	"guesthouse/internal/domain/booking"
	"guesthouse/internal/domain/contacts"
	"guesthouse/internal/domain/houses"
	"guesthouse/internal/domain/pricing"
)

// Dataset is one consistent snapshot of the store. Every report is recomputed
// from it; nothing is cached between calls.
type Dataset struct {
	Catalog       *houses.Catalog
	Bookings      []*booking.Booking
	Cancellations []*booking.Cancellation
	Contacts      contacts.Directory
	Rates         pricing.RateTable
}
