package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

var (
	// ErrInvalidDrawTransition is returned when a lifecycle transition is
	// requested from the wrong current status.
	ErrInvalidDrawTransition = errors.New("draw is not in a state that allows this transition")

	// ErrDrawNotOpen is returned when a member tries to enter a draw that is
	// not accepting entries.
	ErrDrawNotOpen = errors.New("draw is not open for entries")

	// ErrMemberNotEligible is returned when the entering member has no active
	// membership.
	ErrMemberNotEligible = errors.New("member has no active membership")
)

// DrawServiceImpl manages the pre-execution draw lifecycle
// (DRAFT -> ANNOUNCED -> ACTIVE, plus cancellation) and member entries.
type DrawServiceImpl struct {
	drawRepo       repositories.DrawRepository
	prizeRepo      repositories.PrizeRepository
	entryRepo      repositories.EntryRepository
	membershipRepo repositories.MembershipRepository
	auditRepo      repositories.AuditRepository
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	drawRepo repositories.DrawRepository,
	prizeRepo repositories.PrizeRepository,
	entryRepo repositories.EntryRepository,
	membershipRepo repositories.MembershipRepository,
	auditRepo repositories.AuditRepository,
) *DrawServiceImpl {
	return &DrawServiceImpl{
		drawRepo:       drawRepo,
		prizeRepo:      prizeRepo,
		entryRepo:      entryRepo,
		membershipRepo: membershipRepo,
		auditRepo:      auditRepo,
	}
}

// CreateDraw creates a new draw in DRAFT status
func (s *DrawServiceImpl) CreateDraw(ctx context.Context, country string, scheduledAt time.Time, estimatedPoolSize int, estimatedPrizeFund float64) (*models.PrizeDraw, error) {
	if country == "" {
		return nil, errors.New("country is required")
	}
	if scheduledAt.Before(time.Now()) {
		return nil, errors.New("scheduled time must be in the future")
	}

	now := time.Now()
	draw := &models.PrizeDraw{
		Country:            country,
		ScheduledAt:        scheduledAt,
		Status:             models.DrawStatusDraft,
		EstimatedPoolSize:  estimatedPoolSize,
		EstimatedPrizeFund: estimatedPrizeFund,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to create draw: %w", err)
	}

	slog.Info("Draw created", "drawId", draw.ID, "country", country, "scheduledAt", scheduledAt)
	return draw, nil
}

// AddPrize attaches a prize to a draw. Prizes can only be added before the
// draw is activated.
func (s *DrawServiceImpl) AddPrize(ctx context.Context, drawID primitive.ObjectID, name string, value float64, awardType models.AwardType, numberOfWinners int) (*models.Prize, error) {
	if name == "" {
		return nil, errors.New("prize name is required")
	}
	if awardType != models.AwardTypeRandomDraw && awardType != models.AwardTypeDiscretionary {
		return nil, fmt.Errorf("unknown award type: %s", awardType)
	}
	if numberOfWinners < 1 {
		return nil, errors.New("number of winners must be at least 1")
	}

	draw, err := s.drawRepo.FindByID(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("draw not found: %w", err)
	}
	if draw.Status != models.DrawStatusDraft && draw.Status != models.DrawStatusAnnounced {
		return nil, ErrInvalidDrawTransition
	}

	now := time.Now()
	prize := &models.Prize{
		DrawID:          drawID,
		Name:            name,
		Value:           value,
		AwardType:       awardType,
		NumberOfWinners: numberOfWinners,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.prizeRepo.Create(ctx, prize); err != nil {
		return nil, fmt.Errorf("failed to create prize: %w", err)
	}
	return prize, nil
}

// AnnounceDraw moves a draw DRAFT -> ANNOUNCED. A draw must carry at least one
// active prize before it can be announced.
func (s *DrawServiceImpl) AnnounceDraw(ctx context.Context, drawID primitive.ObjectID) error {
	prizes, err := s.prizeRepo.FindActiveByDrawID(ctx, drawID)
	if err != nil {
		return fmt.Errorf("failed to fetch prizes: %w", err)
	}
	if len(prizes) == 0 {
		return errors.New("draw has no active prizes")
	}
	return s.transition(ctx, drawID, models.DrawStatusDraft, models.DrawStatusAnnounced, "DRAW_ANNOUNCED")
}

// ActivateDraw moves a draw ANNOUNCED -> ACTIVE, opening it for entries and
// making it a candidate for scheduled execution.
func (s *DrawServiceImpl) ActivateDraw(ctx context.Context, drawID primitive.ObjectID) error {
	return s.transition(ctx, drawID, models.DrawStatusAnnounced, models.DrawStatusActive, "DRAW_ACTIVATED")
}

// CancelDraw cancels a draw that has not started executing
func (s *DrawServiceImpl) CancelDraw(ctx context.Context, drawID primitive.ObjectID) error {
	draw, err := s.drawRepo.FindByID(ctx, drawID)
	if err != nil {
		return fmt.Errorf("draw not found: %w", err)
	}
	switch draw.Status {
	case models.DrawStatusDraft, models.DrawStatusAnnounced, models.DrawStatusActive:
		return s.transition(ctx, drawID, draw.Status, models.DrawStatusCancelled, "DRAW_CANCELLED")
	default:
		return ErrInvalidDrawTransition
	}
}

func (s *DrawServiceImpl) transition(ctx context.Context, drawID primitive.ObjectID, from, to models.DrawStatus, action string) error {
	ok, err := s.drawRepo.TransitionStatus(ctx, drawID, from, to)
	if err != nil {
		return fmt.Errorf("failed to update draw status: %w", err)
	}
	if !ok {
		return ErrInvalidDrawTransition
	}

	if err := s.auditRepo.Append(ctx, &models.AuditRecord{
		Action:    action,
		TargetID:  drawID,
		Details:   fmt.Sprintf("%s -> %s", from, to),
		Timestamp: time.Now(),
	}); err != nil {
		slog.Error("Failed to append draw lifecycle audit record", "error", err, "drawId", drawID)
	}

	slog.Info("Draw status changed", "drawId", drawID, "from", from, "to", to)
	return nil
}

// GetDrawByID returns a single draw
func (s *DrawServiceImpl) GetDrawByID(ctx context.Context, drawID primitive.ObjectID) (*models.PrizeDraw, error) {
	return s.drawRepo.FindByID(ctx, drawID)
}

// GetDraws lists draws filtered by status and/or scheduled date range
func (s *DrawServiceImpl) GetDraws(ctx context.Context, statuses []models.DrawStatus, start, end time.Time) ([]*models.PrizeDraw, error) {
	if len(statuses) > 0 {
		return s.drawRepo.FindByStatus(ctx, statuses)
	}
	return s.drawRepo.FindByDateRange(ctx, start, end)
}

// EnsureEntry records a member's opt-in for an ACTIVE or ANNOUNCED draw. The
// upsert keyed on (draw, user) makes repeated opt-ins idempotent; the second
// return value reports whether a new entry was created.
func (s *DrawServiceImpl) EnsureEntry(ctx context.Context, drawID, userID primitive.ObjectID) (*models.PrizeDrawEntry, bool, error) {
	draw, err := s.drawRepo.FindByID(ctx, drawID)
	if err != nil {
		return nil, false, fmt.Errorf("draw not found: %w", err)
	}
	if draw.Status != models.DrawStatusAnnounced && draw.Status != models.DrawStatusActive {
		return nil, false, ErrDrawNotOpen
	}

	membership, err := s.membershipRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up membership: %w", err)
	}
	if membership == nil {
		return nil, false, ErrMemberNotEligible
	}

	now := time.Now()
	entry := &models.PrizeDrawEntry{
		DrawID:       drawID,
		UserID:       userID,
		MembershipID: membership.ID,
		EnteredAt:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.entryRepo.Ensure(ctx, entry)
	if err != nil {
		return nil, false, fmt.Errorf("failed to record entry: %w", err)
	}
	if created {
		slog.Info("Member entered draw", "drawId", drawID, "userId", userID)
	}
	return entry, created, nil
}
