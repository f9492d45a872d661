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

// MemberRepository implements the repositories.MemberRepository interface
type MemberRepository struct {
	collection *mongo.Collection
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *mongo.Database) repositories.MemberRepository {
	return &MemberRepository{
		collection: db.Collection("members"),
	}
}

// Create creates a new member profile
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		return err
	}
	member.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a member by ID
func (r *MemberRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByIDs finds all members matching the given IDs
func (r *MemberRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Member, error) {
	if len(ids) == 0 {
		return []*models.Member{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []*models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []*models.Member{}
	}
	return members, nil
}
