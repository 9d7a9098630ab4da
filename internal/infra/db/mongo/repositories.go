package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"guesthouse/internal/app/uow"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	domainpricing "guesthouse/internal/domain/pricing"
	"guesthouse/internal/infra/records"
)

// ErrConcurrentUpdate is returned when a booking changed since it was read.
var ErrConcurrentUpdate = fmt.Errorf("mongo: %w", uow.ErrConcurrentUpdate)

type BookingRepository struct {
	col      *mongo.Collection
	currency string
	readOnly bool
}

func (r *BookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []records.Booking
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainbooking.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := doc.ToBooking(r.currency)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc records.Booking
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.ToBooking(r.currency)
}

// Save upserts guarded by the version the booking was read at.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	if r.readOnly {
		return ErrReadOnly
	}
	doc := records.FromBooking(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.BookingID) error {
	if r.readOnly {
		return ErrReadOnly
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainbooking.ErrBookingNotFound
	}
	return nil
}

// CancellationRepository keys documents by booking id, one per booking.
type CancellationRepository struct {
	col      *mongo.Collection
	currency string
	readOnly bool
}

func (r *CancellationRepository) Append(ctx context.Context, c *domainbooking.Cancellation) error {
	if r.readOnly {
		return ErrReadOnly
	}
	doc := records.FromCancellation(c)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.BookingID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *CancellationRepository) List(ctx context.Context) ([]*domainbooking.Cancellation, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "cancelledAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []records.Cancellation
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainbooking.Cancellation, 0, len(docs))
	for _, doc := range docs {
		c, err := doc.ToCancellation(r.currency)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

type ContactRepository struct {
	col      *mongo.Collection
	readOnly bool
}

func (r *ContactRepository) List(ctx context.Context) ([]*domaincontacts.Contact, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []records.Contact
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domaincontacts.Contact, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.ToContact())
	}
	return out, nil
}

func (r *ContactRepository) ByID(ctx context.Context, id domaincontacts.ContactID) (*domaincontacts.Contact, error) {
	var doc records.Contact
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincontacts.ErrContactNotFound
		}
		return nil, err
	}
	return doc.ToContact(), nil
}

func (r *ContactRepository) Save(ctx context.Context, c *domaincontacts.Contact) error {
	if r.readOnly {
		return ErrReadOnly
	}
	doc := records.FromContact(c)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type ratesDocument struct {
	ID        string        `bson:"_id"`
	Rates     records.Rates `bson:"rates"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// RateStore keeps the whole table in one settings document.
type RateStore struct {
	col      *mongo.Collection
	readOnly bool
}

func (s *RateStore) Rates(ctx context.Context) (domainpricing.RateTable, error) {
	var doc ratesDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": ratesDocumentID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Rates.ToRateTable(), nil
}

func (s *RateStore) SaveRates(ctx context.Context, table domainpricing.RateTable) error {
	if s.readOnly {
		return ErrReadOnly
	}
	doc := ratesDocument{ID: ratesDocumentID, Rates: records.FromRates(table), UpdatedAt: time.Now().UTC()}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": ratesDocumentID}, doc, options.Replace().SetUpsert(true))
	return err
}
