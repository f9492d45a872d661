package mongodb

import (
	"context"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditRepository implements the repositories.AuditRepository interface
type AuditRepository struct {
	collection *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *mongo.Database) repositories.AuditRepository {
	return &AuditRepository{
		collection: db.Collection("audit_log"),
	}
}

// Append appends a record to the audit log
func (r *AuditRepository) Append(ctx context.Context, record *models.AuditRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}
