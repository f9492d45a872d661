package services

import (
	"context"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EligibleEntry is the ephemeral eligibility snapshot derived per selection
// run. It is never persisted.
type EligibleEntry struct {
	UserID       primitive.ObjectID
	EntryID      primitive.ObjectID
	MembershipID primitive.ObjectID
}

// ClaimEligibility is the result of a claim-eligibility check. Reason carries
// the single most relevant blocker when CanClaim is false.
type ClaimEligibility struct {
	CanClaim            bool     `json:"canClaim"`
	Reason              string   `json:"reason,omitempty"`
	MissingRequirements []string `json:"missingRequirements,omitempty"`
}

// ExpiryResult reports the outcome of one expiry/redraw pass
type ExpiryResult struct {
	NumberExpired int `json:"numberExpired"`
	NumberRedrawn int `json:"numberRedrawn"`
}

// EligibilityService produces the set of entries allowed to win a draw
type EligibilityService interface {
	ListEligibleEntries(ctx context.Context, drawID primitive.ObjectID) ([]EligibleEntry, error)
}

// SelectionService draws unique winners from the eligible pool using a
// cryptographically secure random source
type SelectionService interface {
	SelectRandomWinners(ctx context.Context, drawID, prizeID primitive.ObjectID, numberOfWinners int) ([]primitive.ObjectID, error)
	// SelectReplacementWinner picks one winner for a redraw, excluding every
	// user who already holds any winner row for the prize.
	SelectReplacementWinner(ctx context.Context, drawID, prizeID primitive.ObjectID) (primitive.ObjectID, error)
}

// WinnerService owns winner persistence and the claim/payout state machine
type WinnerService interface {
	SaveWinners(ctx context.Context, drawID, prizeID primitive.ObjectID, userIDs []primitive.ObjectID, awardType models.AwardType, selectedByAdmin *primitive.ObjectID) (int, error)
	CanClaimPrize(ctx context.Context, winnerID primitive.ObjectID) (*ClaimEligibility, error)
	ClaimPrize(ctx context.Context, winnerID, userID primitive.ObjectID) (*models.PrizeDrawWinner, error)
	UpdatePayout(ctx context.Context, winnerID primitive.ObjectID, status models.PayoutStatus, blockedReason string, actorID primitive.ObjectID) error
	GetWinnersByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.PrizeDrawWinner, error)
}

// ExecutionService locates due draws and orchestrates their execution
type ExecutionService interface {
	RunDueDraws(ctx context.Context) (int, error)
	ExecuteDraw(ctx context.Context, drawID primitive.ObjectID, autoExecuted bool) error
}

// ExpiryService expires overdue PENDING winners and redraws replacements
type ExpiryService interface {
	ExpireAndRedraw(ctx context.Context, drawID primitive.ObjectID) (ExpiryResult, error)
	RunExpiryCycle(ctx context.Context) (ExpiryResult, error)
}

// DrawService manages the pre-execution draw lifecycle and member entries
type DrawService interface {
	CreateDraw(ctx context.Context, country string, scheduledAt time.Time, estimatedPoolSize int, estimatedPrizeFund float64) (*models.PrizeDraw, error)
	AddPrize(ctx context.Context, drawID primitive.ObjectID, name string, value float64, awardType models.AwardType, numberOfWinners int) (*models.Prize, error)
	AnnounceDraw(ctx context.Context, drawID primitive.ObjectID) error
	ActivateDraw(ctx context.Context, drawID primitive.ObjectID) error
	CancelDraw(ctx context.Context, drawID primitive.ObjectID) error
	GetDrawByID(ctx context.Context, drawID primitive.ObjectID) (*models.PrizeDraw, error)
	GetDraws(ctx context.Context, statuses []models.DrawStatus, start, end time.Time) ([]*models.PrizeDraw, error)
	EnsureEntry(ctx context.Context, drawID, userID primitive.ObjectID) (*models.PrizeDrawEntry, bool, error)
}

// NotificationService enqueues notification requests for external delivery
type NotificationService interface {
	EnqueueWinnerNotification(ctx context.Context, drawID, userID primitive.ObjectID, templateData map[string]string) error
	EnqueueDrawFailure(ctx context.Context, drawID primitive.ObjectID, detail string) error
}

// ReportService generates the per-execution draw report
type ReportService interface {
	GenerateReport(ctx context.Context, draw *models.PrizeDraw, results []models.PrizeResult, autoExecuted bool) error
}

// AuthService handles admin authentication
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
}
