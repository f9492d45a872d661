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

// WinnerRepository implements the repositories.WinnerRepository interface
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) repositories.WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("prize_draw_winners"),
	}
}

// CreateMany inserts a batch of winner records
func (r *WinnerRepository) CreateMany(ctx context.Context, winners []*models.PrizeDrawWinner) error {
	if len(winners) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(winners))
	now := time.Now()
	for _, w := range winners {
		w.CreatedAt = now
		w.UpdatedAt = now
		docs = append(docs, w)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByID finds a winner record by ID
func (r *WinnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PrizeDrawWinner, error) {
	var winner models.PrizeDrawWinner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&winner)
	if err != nil {
		return nil, err
	}
	return &winner, nil
}

// FindByDrawID finds all winner records for a draw
func (r *WinnerRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.PrizeDrawWinner, error) {
	return r.find(ctx, bson.M{"drawId": drawID})
}

// FindByPrizeID finds every winner record for a prize, any status
func (r *WinnerRepository) FindByPrizeID(ctx context.Context, prizeID primitive.ObjectID) ([]*models.PrizeDrawWinner, error) {
	return r.find(ctx, bson.M{"prizeId": prizeID})
}

// FindByUserID finds all winner records for a user
func (r *WinnerRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PrizeDrawWinner, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// FindPendingExpired finds PENDING winners of the draw whose claim deadline
// has passed. Already-expired rows never match, which keeps repeated expiry
// runs idempotent.
func (r *WinnerRepository) FindPendingExpired(ctx context.Context, drawID primitive.ObjectID, now time.Time) ([]*models.PrizeDrawWinner, error) {
	filter := bson.M{
		"drawId":          drawID,
		"claimStatus":     models.ClaimStatusPending,
		"claimDeadlineAt": bson.M{"$lt": now},
	}
	return r.find(ctx, filter)
}

// MarkExpired bulk-transitions the given rows to EXPIRED. The claimStatus
// filter guards against racing claims.
func (r *WinnerRepository) MarkExpired(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"_id":         bson.M{"$in": ids},
		"claimStatus": models.ClaimStatusPending,
	}
	update := bson.M{"$set": bson.M{
		"claimStatus": models.ClaimStatusExpired,
		"updatedAt":   time.Now(),
	}}
	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkClaimed transitions PENDING -> CLAIMED and starts payout processing in
// a single conditional update
func (r *WinnerRepository) MarkClaimed(ctx context.Context, id primitive.ObjectID, claimedAt time.Time) (bool, error) {
	filter := bson.M{"_id": id, "claimStatus": models.ClaimStatusPending}
	update := bson.M{"$set": bson.M{
		"claimStatus":  models.ClaimStatusClaimed,
		"claimedAt":    claimedAt,
		"payoutStatus": models.PayoutStatusProcessing,
		"updatedAt":    time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// UpdatePayoutStatus sets the payout track status, recording the blocked
// reason when one is supplied
func (r *WinnerRepository) UpdatePayoutStatus(ctx context.Context, id primitive.ObjectID, status models.PayoutStatus, blockedReason string) error {
	set := bson.M{
		"payoutStatus": status,
		"updatedAt":    time.Now(),
	}
	if blockedReason != "" {
		set["blockedReason"] = blockedReason
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *WinnerRepository) find(ctx context.Context, filter bson.M) ([]*models.PrizeDrawWinner, error) {
	opts := options.Find().SetSort(bson.M{"selectedAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.PrizeDrawWinner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	if winners == nil {
		winners = []*models.PrizeDrawWinner{}
	}
	return winners, nil
}
