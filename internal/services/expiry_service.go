package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"github.com/MigraSafe/migrasafe-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ExpiryServiceImpl implements ExpiryService
var _ ExpiryService = (*ExpiryServiceImpl)(nil)

// ExpiryServiceImpl moves unclaimed winners past their deadline to EXPIRED and
// redraws a replacement for each expired randomly-drawn prize slot.
type ExpiryServiceImpl struct {
	drawRepo   repositories.DrawRepository
	prizeRepo  repositories.PrizeRepository
	winnerRepo repositories.WinnerRepository
	selection  SelectionService
	winners    WinnerService
	auditRepo  repositories.AuditRepository
	tx         mongodb.TxRunner
}

// NewExpiryService creates a new ExpiryServiceImpl
func NewExpiryService(
	drawRepo repositories.DrawRepository,
	prizeRepo repositories.PrizeRepository,
	winnerRepo repositories.WinnerRepository,
	selection SelectionService,
	winners WinnerService,
	auditRepo repositories.AuditRepository,
	tx mongodb.TxRunner,
) *ExpiryServiceImpl {
	return &ExpiryServiceImpl{
		drawRepo:   drawRepo,
		prizeRepo:  prizeRepo,
		winnerRepo: winnerRepo,
		selection:  selection,
		winners:    winners,
		auditRepo:  auditRepo,
		tx:         tx,
	}
}

// RunExpiryCycle sweeps every completed draw. Errors on one draw are logged
// and do not stop the sweep.
func (s *ExpiryServiceImpl) RunExpiryCycle(ctx context.Context) (ExpiryResult, error) {
	draws, err := s.drawRepo.FindByStatus(ctx, []models.DrawStatus{models.DrawStatusCompleted})
	if err != nil {
		return ExpiryResult{}, fmt.Errorf("failed to query completed draws: %w", err)
	}

	var total ExpiryResult
	for _, draw := range draws {
		result, err := s.ExpireAndRedraw(ctx, draw.ID)
		if err != nil {
			slog.Error("Expiry pass failed for draw, continuing", "error", err, "drawId", draw.ID)
			continue
		}
		total.NumberExpired += result.NumberExpired
		total.NumberRedrawn += result.NumberRedrawn
	}

	if total.NumberExpired > 0 || total.NumberRedrawn > 0 {
		slog.Info("Expiry cycle finished", "expired", total.NumberExpired, "redrawn", total.NumberRedrawn)
	}
	return total, nil
}

// ExpireAndRedraw expires overdue pending winners of one draw and attempts a
// replacement selection for each expired slot. Running it again immediately is
// a no-op: the expired rows are no longer PENDING and the replacements carry a
// fresh deadline.
func (s *ExpiryServiceImpl) ExpireAndRedraw(ctx context.Context, drawID primitive.ObjectID) (ExpiryResult, error) {
	now := time.Now()
	overdue, err := s.winnerRepo.FindPendingExpired(ctx, drawID, now)
	if err != nil {
		return ExpiryResult{}, fmt.Errorf("failed to query overdue winners: %w", err)
	}
	if len(overdue) == 0 {
		return ExpiryResult{}, nil
	}

	ids := make([]primitive.ObjectID, len(overdue))
	for i, winner := range overdue {
		ids[i] = winner.ID
	}
	expired, err := s.winnerRepo.MarkExpired(ctx, ids)
	if err != nil {
		return ExpiryResult{}, fmt.Errorf("failed to expire winners: %w", err)
	}
	slog.Info("Expired unclaimed winners", "drawId", drawID, "count", expired)

	for _, winner := range overdue {
		if err := s.auditRepo.Append(ctx, &models.AuditRecord{
			Action:    "WINNER_EXPIRED",
			TargetID:  winner.ID,
			Details:   fmt.Sprintf("userId=%s prizeId=%s", winner.UserID.Hex(), winner.PrizeID.Hex()),
			Timestamp: now,
		}); err != nil {
			slog.Error("Failed to append expiry audit record", "error", err, "winnerId", winner.ID)
		}
	}

	result := ExpiryResult{NumberExpired: int(expired)}
	prizeNames := make(map[primitive.ObjectID]string)

	for _, winner := range overdue {
		// Redraw eligibility is decided by the award type snapshotted on the
		// winner row at selection time, not the live prize record.
		if winner.AwardType != models.AwardTypeRandomDraw {
			// Discretionary slots are re-awarded manually, never redrawn.
			continue
		}

		redrawn, err := s.redrawSlot(ctx, drawID, winner, s.prizeName(ctx, prizeNames, winner.PrizeID))
		if err != nil {
			slog.Error("Replacement selection failed, skipping slot", "error", err, "drawId", drawID, "prizeId", winner.PrizeID)
			continue
		}
		if redrawn {
			result.NumberRedrawn++
		}
	}

	return result, nil
}

// prizeName resolves a prize name for log context. Lookup failures are
// tolerated, the redraw itself only needs the winner row.
func (s *ExpiryServiceImpl) prizeName(ctx context.Context, cache map[primitive.ObjectID]string, prizeID primitive.ObjectID) string {
	if name, ok := cache[prizeID]; ok {
		return name
	}
	prize, err := s.prizeRepo.FindByID(ctx, prizeID)
	if err != nil {
		slog.Warn("Failed to load prize metadata", "error", err, "prizeId", prizeID)
		cache[prizeID] = ""
		return ""
	}
	cache[prizeID] = prize.Name
	return prize.Name
}

// redrawSlot selects and persists one replacement winner inside a transaction.
// The replacement row inherits the expired winner's snapshotted award type.
// Returns false without error when the eligible pool is exhausted: every
// remaining eligible member already holds a winner row for this prize.
func (s *ExpiryServiceImpl) redrawSlot(ctx context.Context, drawID primitive.ObjectID, winner *models.PrizeDrawWinner, prizeName string) (bool, error) {
	var replacement primitive.ObjectID
	txErr := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		userID, err := s.selection.SelectReplacementWinner(txCtx, drawID, winner.PrizeID)
		if err != nil {
			return err
		}
		if _, err := s.winners.SaveWinners(txCtx, drawID, winner.PrizeID, []primitive.ObjectID{userID}, winner.AwardType, nil); err != nil {
			return err
		}
		replacement = userID
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrPrizePoolExhausted) || errors.Is(txErr, ErrNoEligibleEntries) {
			slog.Warn("No replacement candidates available, slot stays unawarded",
				"drawId", drawID, "prizeId", winner.PrizeID, "prize", prizeName)
			return false, nil
		}
		return false, txErr
	}

	if err := s.auditRepo.Append(ctx, &models.AuditRecord{
		Action:    "WINNER_REDRAWN",
		TargetID:  winner.PrizeID,
		Details:   fmt.Sprintf("drawId=%s userId=%s", drawID.Hex(), replacement.Hex()),
		Timestamp: time.Now(),
	}); err != nil {
		slog.Error("Failed to append redraw audit record", "error", err, "prizeId", winner.PrizeID)
	}

	slog.Info("Replacement winner selected", "drawId", drawID, "prizeId", winner.PrizeID, "userId", replacement, "prize", prizeName)
	return true, nil
}
