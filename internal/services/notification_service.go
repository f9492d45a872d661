package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure NotificationServiceImpl implements NotificationService
var _ NotificationService = (*NotificationServiceImpl)(nil)

// NotificationServiceImpl enqueues notification requests for an external
// delivery worker. It never sends anything itself.
type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationServiceImpl
func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

// EnqueueWinnerNotification queues a congratulation message for one winner
func (s *NotificationServiceImpl) EnqueueWinnerNotification(ctx context.Context, drawID, userID primitive.ObjectID, templateData map[string]string) error {
	now := time.Now()
	notification := &models.Notification{
		DrawID:          drawID,
		RecipientUserID: userID,
		Type:            models.NotificationTypeWinner,
		TemplateData:    templateData,
		Status:          "PENDING",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to enqueue winner notification: %w", err)
	}
	slog.Debug("Winner notification enqueued", "drawId", drawID, "userId", userID)
	return nil
}

// EnqueueDrawFailure queues an operator alert for a failed draw execution
func (s *NotificationServiceImpl) EnqueueDrawFailure(ctx context.Context, drawID primitive.ObjectID, detail string) error {
	now := time.Now()
	notification := &models.Notification{
		DrawID:       drawID,
		Type:         models.NotificationTypeDrawFailure,
		TemplateData: map[string]string{"detail": detail},
		Status:       "PENDING",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to enqueue draw failure notification: %w", err)
	}
	return nil
}
