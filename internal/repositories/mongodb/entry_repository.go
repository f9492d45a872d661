package mongodb

import (
	"context"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntryRepository implements the repositories.EntryRepository interface
type EntryRepository struct {
	collection *mongo.Collection
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *mongo.Database) repositories.EntryRepository {
	return &EntryRepository{
		collection: db.Collection("prize_draw_entries"),
	}
}

// Ensure upserts the (draw, user) entry so repeated opt-ins stay idempotent.
// The $setOnInsert keeps the original enteredAt and membership snapshot when
// the entry already exists.
func (r *EntryRepository) Ensure(ctx context.Context, entry *models.PrizeDrawEntry) (bool, error) {
	now := time.Now()
	filter := bson.M{"drawId": entry.DrawID, "userId": entry.UserID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"drawId":       entry.DrawID,
			"userId":       entry.UserID,
			"membershipId": entry.MembershipID,
			"enteredAt":    now,
			"createdAt":    now,
		},
		"$set": bson.M{"updatedAt": now},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	if res.UpsertedID != nil {
		entry.ID = res.UpsertedID.(primitive.ObjectID)
		entry.EnteredAt = now
		return true, nil
	}
	return false, nil
}

// FindByDrawID finds all entries for a draw
func (r *EntryRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.PrizeDrawEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"drawId": drawID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.PrizeDrawEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.PrizeDrawEntry{}
	}
	return entries, nil
}

// CountByDrawID counts all entries for a draw
func (r *EntryRepository) CountByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"drawId": drawID})
}
