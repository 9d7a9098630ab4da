package firestore

import (
	"context"
	"errors"

	gcfirestore "cloud.google.com/go/firestore"

	"guesthouse/internal/app/migration"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	"guesthouse/internal/infra/records"
)

// MigrationTarget seeds collections through a BulkWriter, one writer per chunk.
type MigrationTarget struct {
	Client *gcfirestore.Client
}

func (t MigrationTarget) Marker(ctx context.Context) (*migration.Marker, error) {
	snap, err := t.Client.Collection(metadataCollection).Doc(markerDocumentID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var m migration.Marker
	if err := snap.DataTo(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (t MigrationTarget) SaveMarker(ctx context.Context, marker migration.Marker) error {
	_, err := t.Client.Collection(metadataCollection).Doc(markerDocumentID).Set(ctx, marker)
	return err
}

func (t MigrationTarget) WriteContacts(ctx context.Context, chunk []*domaincontacts.Contact) error {
	bw := t.Client.BulkWriter(ctx)
	jobs := make([]*gcfirestore.BulkWriterJob, 0, len(chunk))
	for _, c := range chunk {
		rec := records.FromContact(c)
		fields := contactFields(rec)
		fields["createdAt"] = gcfirestore.ServerTimestamp
		job, err := bw.Set(t.Client.Collection(contactsCollection).Doc(rec.ID), fields)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}
	return finish(bw, jobs)
}

func (t MigrationTarget) WriteBookings(ctx context.Context, chunk []*domainbooking.Booking) error {
	bw := t.Client.BulkWriter(ctx)
	jobs := make([]*gcfirestore.BulkWriterJob, 0, len(chunk))
	for _, b := range chunk {
		rec := records.FromBooking(b)
		fields := bookingFields(rec)
		fields["createdAt"] = gcfirestore.ServerTimestamp
		job, err := bw.Set(t.Client.Collection(bookingsCollection).Doc(rec.ID), fields)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}
	return finish(bw, jobs)
}

func finish(bw *gcfirestore.BulkWriter, jobs []*gcfirestore.BulkWriterJob) error {
	bw.End()
	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ migration.Target = MigrationTarget{}
