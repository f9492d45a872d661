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

// ReportRepository implements the repositories.ReportRepository interface
type ReportRepository struct {
	collection *mongo.Collection
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *mongo.Database) repositories.ReportRepository {
	return &ReportRepository{
		collection: db.Collection("draw_reports"),
	}
}

// Create creates a draw report
func (r *ReportRepository) Create(ctx context.Context, report *models.DrawReport) error {
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return err
	}
	report.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByDrawID finds the report generated for a draw
func (r *ReportRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) (*models.DrawReport, error) {
	var report models.DrawReport
	err := r.collection.FindOne(ctx, bson.M{"drawId": drawID}).Decode(&report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}
