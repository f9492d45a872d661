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

// MembershipRepository implements the repositories.MembershipRepository interface
type MembershipRepository struct {
	collection *mongo.Collection
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *mongo.Database) repositories.MembershipRepository {
	return &MembershipRepository{
		collection: db.Collection("memberships"),
	}
}

// Create creates a new membership record
func (r *MembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	membership.CreatedAt = time.Now()
	membership.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, membership)
	if err != nil {
		return err
	}
	membership.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByIDs finds all memberships matching the given IDs
func (r *MembershipRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Membership, error) {
	if len(ids) == 0 {
		return []*models.Membership{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var memberships []*models.Membership
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	if memberships == nil {
		memberships = []*models.Membership{}
	}
	return memberships, nil
}

// FindActiveByUserID finds the user's current active membership, preferring
// the one ending latest
func (r *MembershipRepository) FindActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Membership, error) {
	filter := bson.M{"userId": userID, "status": models.MembershipStatusActive}
	opts := options.FindOne().SetSort(bson.M{"endDate": -1})

	var membership models.Membership
	err := r.collection.FindOne(ctx, filter, opts).Decode(&membership)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}
