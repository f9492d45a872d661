package mongodb

import (
	"context"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PrizeRepository implements the repositories.PrizeRepository interface
type PrizeRepository struct {
	collection *mongo.Collection
}

// NewPrizeRepository creates a new PrizeRepository
func NewPrizeRepository(db *mongo.Database) repositories.PrizeRepository {
	return &PrizeRepository{
		collection: db.Collection("prizes"),
	}
}

// Create creates a new prize
func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	prize.CreatedAt = time.Now()
	prize.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, prize)
	if err != nil {
		return err
	}
	prize.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a prize by ID
func (r *PrizeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error) {
	var prize models.Prize
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&prize)
	if err != nil {
		return nil, err
	}
	return &prize, nil
}

// FindByDrawID finds all prizes belonging to a draw
func (r *PrizeRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Prize, error) {
	return r.find(ctx, bson.M{"drawId": drawID})
}

// FindActiveByDrawID finds the active prizes belonging to a draw
func (r *PrizeRepository) FindActiveByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Prize, error) {
	return r.find(ctx, bson.M{"drawId": drawID, "active": true})
}

// Update updates a prize
func (r *PrizeRepository) Update(ctx context.Context, prize *models.Prize) error {
	prize.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": prize.ID}, prize)
	return err
}

func (r *PrizeRepository) find(ctx context.Context, filter bson.M) ([]*models.Prize, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prizes []*models.Prize
	if err := cursor.All(ctx, &prizes); err != nil {
		return nil, err
	}
	if prizes == nil {
		prizes = []*models.Prize{}
	}
	return prizes, nil
}
