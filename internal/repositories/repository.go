package repositories

import (
	"context"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawRepository defines the interface for prize draw data operations
type DrawRepository interface {
	Create(ctx context.Context, draw *models.PrizeDraw) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PrizeDraw, error)
	FindByStatus(ctx context.Context, statuses []models.DrawStatus) ([]*models.PrizeDraw, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.PrizeDraw, error)
	Update(ctx context.Context, draw *models.PrizeDraw) error
	// FindDue returns draws with status ACTIVE, no executedAt marker, and
	// scheduledAt at or before now.
	FindDue(ctx context.Context, now time.Time) ([]*models.PrizeDraw, error)
	// MarkExecuting performs the optimistic lock: status moves ACTIVE ->
	// EXECUTING only if the current status is still ACTIVE. Returns false when
	// another runner already claimed the draw.
	MarkExecuting(ctx context.Context, id primitive.ObjectID) (bool, error)
	// TransitionStatus is the same compare-and-swap for the pre-execution
	// lifecycle (DRAFT -> ANNOUNCED -> ACTIVE, and cancellation).
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.DrawStatus) (bool, error)
	MarkCompleted(ctx context.Context, id primitive.ObjectID, executedAt time.Time, numWinners, totalEntries, eligibleEntries int) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, errorMessage string) error
}

// PrizeRepository defines the interface for prize data operations
type PrizeRepository interface {
	Create(ctx context.Context, prize *models.Prize) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error)
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Prize, error)
	FindActiveByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Prize, error)
	Update(ctx context.Context, prize *models.Prize) error
}

// EntryRepository defines the interface for prize draw entry operations
type EntryRepository interface {
	// Ensure upserts the (draw, user) entry. Returns true when a new entry was
	// created, false when the member already had one.
	Ensure(ctx context.Context, entry *models.PrizeDrawEntry) (bool, error)
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.PrizeDrawEntry, error)
	CountByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error)
}

// WinnerRepository defines the interface for winner record operations
type WinnerRepository interface {
	CreateMany(ctx context.Context, winners []*models.PrizeDrawWinner) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PrizeDrawWinner, error)
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.PrizeDrawWinner, error)
	// FindByPrizeID returns every winner row for the prize regardless of status.
	FindByPrizeID(ctx context.Context, prizeID primitive.ObjectID) ([]*models.PrizeDrawWinner, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PrizeDrawWinner, error)
	// FindPendingExpired returns winners of the draw still PENDING whose claim
	// deadline has passed.
	FindPendingExpired(ctx context.Context, drawID primitive.ObjectID, now time.Time) ([]*models.PrizeDrawWinner, error)
	// MarkExpired bulk-transitions PENDING rows to EXPIRED and reports how many
	// rows changed.
	MarkExpired(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	// MarkClaimed transitions claim status PENDING -> CLAIMED and payout
	// PENDING -> PROCESSING in one conditional update. Returns false when the
	// row was no longer PENDING.
	MarkClaimed(ctx context.Context, id primitive.ObjectID, claimedAt time.Time) (bool, error)
	UpdatePayoutStatus(ctx context.Context, id primitive.ObjectID, status models.PayoutStatus, blockedReason string) error
}

// MemberRepository defines the interface for member profile operations
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Member, error)
}

// MembershipRepository defines the interface for membership fact operations
type MembershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Membership, error)
	FindActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Membership, error)
}

// NotificationRepository defines the interface for notification queue operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Notification, error)
}

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	Append(ctx context.Context, record *models.AuditRecord) error
}

// ReportRepository defines the interface for draw report operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.DrawReport) error
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) (*models.DrawReport, error)
}

// AdminUserRepository defines the interface for admin user operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
