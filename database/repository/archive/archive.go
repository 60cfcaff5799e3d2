// Package archive mirrors confirmed bookings into MongoDB. The in-memory
// store stays the source of truth for identifier allocation; the archive
// only adds durability and historical lookup.
package archive

import (
	"context"
	"fmt"

	"voicedesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "bookings"

// MongoArchive implements the booking archive over a Mongo collection.
type MongoArchive struct {
	coll *mongo.Collection
}

func NewMongoArchive(client *mongo.Client, dbName string) *MongoArchive {
	return &MongoArchive{coll: client.Database(dbName).Collection(collectionName)}
}

// Save writes one confirmed booking.
func (a *MongoArchive) Save(ctx context.Context, booking models.Booking) error {
	if _, err := a.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to archive booking %s: %w", booking.ID, err)
	}
	return nil
}

// FindByID returns the archived booking, or nil when absent.
func (a *MongoArchive) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := a.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query booking archive: %w", err)
	}
	return &booking, nil
}
