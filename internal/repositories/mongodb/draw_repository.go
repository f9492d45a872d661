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

// DrawRepository implements the repositories.DrawRepository interface
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) repositories.DrawRepository {
	return &DrawRepository{
		collection: db.Collection("prize_draws"),
	}
}

// Create creates a new draw
func (r *DrawRepository) Create(ctx context.Context, draw *models.PrizeDraw) error {
	draw.CreatedAt = time.Now()
	draw.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, draw)
	if err != nil {
		return err
	}
	draw.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a draw by ID
func (r *DrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PrizeDraw, error) {
	var draw models.PrizeDraw
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// FindByStatus finds draws matching any of the given statuses
func (r *DrawRepository) FindByStatus(ctx context.Context, statuses []models.DrawStatus) ([]*models.PrizeDraw, error) {
	filter := bson.M{"status": bson.M{"$in": statuses}}
	opts := options.Find().SetSort(bson.M{"scheduledAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.PrizeDraw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.PrizeDraw{}
	}
	return draws, nil
}

// FindByDateRange finds draws scheduled within a date range
func (r *DrawRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.PrizeDraw, error) {
	filter := bson.M{}
	dateFilter := bson.M{}
	if !start.IsZero() {
		dateFilter["$gte"] = start
	}
	if !end.IsZero() {
		dateFilter["$lt"] = end
	}
	if len(dateFilter) > 0 {
		filter["scheduledAt"] = dateFilter
	}

	opts := options.Find().SetSort(bson.M{"scheduledAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.PrizeDraw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.PrizeDraw{}
	}
	return draws, nil
}

// Update updates a draw
func (r *DrawRepository) Update(ctx context.Context, draw *models.PrizeDraw) error {
	draw.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": draw.ID}, draw)
	return err
}

// FindDue finds active draws whose scheduled time has passed and which have
// never been executed
func (r *DrawRepository) FindDue(ctx context.Context, now time.Time) ([]*models.PrizeDraw, error) {
	filter := bson.M{
		"status":      models.DrawStatusActive,
		"executedAt":  bson.M{"$exists": false},
		"scheduledAt": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.M{"scheduledAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.PrizeDraw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.PrizeDraw{}
	}
	return draws, nil
}

// MarkExecuting attempts the ACTIVE -> EXECUTING compare-and-swap. The filter
// requires the current status to still be ACTIVE; a zero modified count means
// another worker owns the draw.
func (r *DrawRepository) MarkExecuting(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "status": models.DrawStatusActive}
	update := bson.M{"$set": bson.M{
		"status":    models.DrawStatusExecuting,
		"updatedAt": time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// TransitionStatus performs a conditional status update, succeeding only when
// the draw is currently in the expected state
func (r *DrawRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.DrawStatus) (bool, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// MarkCompleted finalises an executing draw, setting the executedAt marker
// and the pool counts observed during execution
func (r *DrawRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID, executedAt time.Time, numWinners, totalEntries, eligibleEntries int) error {
	filter := bson.M{"_id": id, "status": models.DrawStatusExecuting}
	update := bson.M{"$set": bson.M{
		"status":          models.DrawStatusCompleted,
		"executedAt":      executedAt,
		"numWinners":      numWinners,
		"totalEntries":    totalEntries,
		"eligibleEntries": eligibleEntries,
		"updatedAt":       time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// MarkFailed moves an executing draw to FAILED with the captured error detail
func (r *DrawRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	filter := bson.M{"_id": id, "status": models.DrawStatusExecuting}
	update := bson.M{"$set": bson.M{
		"status":       models.DrawStatusFailed,
		"errorMessage": errorMessage,
		"updatedAt":    time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
