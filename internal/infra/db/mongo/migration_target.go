package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"guesthouse/internal/app/migration"
	domainbooking "guesthouse/internal/domain/booking"
	domaincontacts "guesthouse/internal/domain/contacts"
	"guesthouse/internal/infra/records"
)

type markerDocument struct {
	ID               string `bson:"_id"`
	migration.Marker `bson:",inline"`
}

// MigrationTarget seeds the collections with unordered bulk replaces, so
// rerunning an interrupted import overwrites instead of failing.
type MigrationTarget struct {
	DB *mongo.Database
}

func (t MigrationTarget) Marker(ctx context.Context) (*migration.Marker, error) {
	var doc markerDocument
	err := t.DB.Collection(metadataCollection).FindOne(ctx, bson.M{"_id": markerDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Marker, nil
}

func (t MigrationTarget) SaveMarker(ctx context.Context, marker migration.Marker) error {
	doc := markerDocument{ID: markerDocumentID, Marker: marker}
	_, err := t.DB.Collection(metadataCollection).ReplaceOne(ctx, bson.M{"_id": markerDocumentID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (t MigrationTarget) WriteContacts(ctx context.Context, chunk []*domaincontacts.Contact) error {
	models := make([]mongo.WriteModel, 0, len(chunk))
	for _, c := range chunk {
		doc := records.FromContact(c)
		models = append(models, mongo.NewReplaceOneModel().SetFilter(bson.M{"_id": doc.ID}).SetReplacement(doc).SetUpsert(true))
	}
	return t.bulk(ctx, contactsCollection, models)
}

func (t MigrationTarget) WriteBookings(ctx context.Context, chunk []*domainbooking.Booking) error {
	models := make([]mongo.WriteModel, 0, len(chunk))
	for _, b := range chunk {
		doc := records.FromBooking(b)
		doc.Version = max(doc.Version, 1)
		models = append(models, mongo.NewReplaceOneModel().SetFilter(bson.M{"_id": doc.ID}).SetReplacement(doc).SetUpsert(true))
	}
	return t.bulk(ctx, bookingsCollection, models)
}

func (t MigrationTarget) bulk(ctx context.Context, collection string, models []mongo.WriteModel) error {
	if len(models) == 0 {
		return nil
	}
	_, err := t.DB.Collection(collection).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

var _ migration.Target = MigrationTarget{}
