package inbox

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store records consumed event ids per consumer; entries expire after ttl.
type Store struct {
	col      *mongo.Collection
	consumer string
}

func NewStore(ctx context.Context, db *mongo.Database, consumer string, ttl time.Duration) (*Store, error) {
	col := db.Collection("app_inbox")
	unique := mongo.IndexModel{
		Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "consumer", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := col.Indexes().CreateOne(ctx, unique); err != nil {
		return nil, err
	}
	if ttl > 0 {
		expiry := mongo.IndexModel{
			Keys:    bson.D{{Key: "receivedAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		}
		if _, err := col.Indexes().CreateOne(ctx, expiry); err != nil {
			return nil, err
		}
	}
	return &Store{col: col, consumer: consumer}, nil
}

// Seen inserts the id and reports true when it was already present.
func (s *Store) Seen(ctx context.Context, eventID string) (bool, error) {
	doc := bson.M{"eventId": eventID, "consumer": s.consumer, "receivedAt": time.Now().UTC()}
	_, err := s.col.InsertOne(ctx, doc)
	if err == nil {
		return false, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return true, nil
	}
	return false, err
}
