package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure WinnerServiceImpl implements WinnerService
var _ WinnerService = (*WinnerServiceImpl)(nil)

// ClaimWindow is how long a winner has to claim before the record expires and
// a redraw may replace it.
const ClaimWindow = 14 * 24 * time.Hour

var (
	ErrNotWinnerOwner     = errors.New("winner record belongs to another member")
	ErrClaimNotAllowed    = errors.New("prize cannot be claimed")
	ErrInvalidPayoutState = errors.New("invalid payout status transition")
)

// WinnerServiceImpl owns winner persistence and the claim/payout state machine
type WinnerServiceImpl struct {
	winnerRepo repositories.WinnerRepository
	memberRepo repositories.MemberRepository
	auditRepo  repositories.AuditRepository
}

// NewWinnerService creates a new WinnerServiceImpl
func NewWinnerService(
	winnerRepo repositories.WinnerRepository,
	memberRepo repositories.MemberRepository,
	auditRepo repositories.AuditRepository,
) *WinnerServiceImpl {
	return &WinnerServiceImpl{
		winnerRepo: winnerRepo,
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
	}
}

// SaveWinners inserts one winner record per user id with the deterministic
// initial state: PENDING claim with a 14-day deadline, PENDING payout. The
// award type is copied verbatim from the caller so later prize edits cannot
// change a past winner's redraw eligibility. An empty input is a no-op.
func (s *WinnerServiceImpl) SaveWinners(ctx context.Context, drawID, prizeID primitive.ObjectID, userIDs []primitive.ObjectID, awardType models.AwardType, selectedByAdmin *primitive.ObjectID) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	now := time.Now()
	winners := make([]*models.PrizeDrawWinner, 0, len(userIDs))
	for _, userID := range userIDs {
		winners = append(winners, &models.PrizeDrawWinner{
			DrawID:          drawID,
			PrizeID:         prizeID,
			UserID:          userID,
			AwardType:       awardType,
			SelectedAt:      now,
			SelectedByAdmin: selectedByAdmin,
			ClaimStatus:     models.ClaimStatusPending,
			ClaimDeadlineAt: now.Add(ClaimWindow),
			PayoutStatus:    models.PayoutStatusPending,
		})
	}

	if err := s.winnerRepo.CreateMany(ctx, winners); err != nil {
		slog.Error("Failed to persist winner records", "error", err, "drawId", drawID, "prizeId", prizeID)
		return 0, fmt.Errorf("failed to save winners: %w", err)
	}

	slog.Info("Winner records created", "drawId", drawID, "prizeId", prizeID, "count", len(winners))
	return len(winners), nil
}

// CanClaimPrize evaluates the claim gate for a winner record. When the claim
// is blocked, exactly one reason is returned, by precedence: the stored
// blocked reason, then verification gaps, then an expired deadline. An
// admin-set block always wins, whatever the member's verification or
// deadline state.
func (s *WinnerServiceImpl) CanClaimPrize(ctx context.Context, winnerID primitive.ObjectID) (*ClaimEligibility, error) {
	winner, err := s.winnerRepo.FindByID(ctx, winnerID)
	if err != nil {
		return nil, fmt.Errorf("winner record not found: %w", err)
	}

	if winner.ClaimStatus == models.ClaimStatusClaimed {
		return &ClaimEligibility{CanClaim: false, Reason: "prize already claimed"}, nil
	}

	if winner.BlockedReason != "" {
		return &ClaimEligibility{CanClaim: false, Reason: winner.BlockedReason}, nil
	}

	member, err := s.memberRepo.FindByID(ctx, winner.UserID)
	if err != nil {
		return nil, fmt.Errorf("member profile not found: %w", err)
	}

	if !member.ReadyToClaim {
		reason := "identity verification incomplete"
		if len(member.MissingRequirements) > 0 {
			reason = fmt.Sprintf("identity verification incomplete: %s", strings.Join(member.MissingRequirements, ", "))
		}
		return &ClaimEligibility{
			CanClaim:            false,
			Reason:              reason,
			MissingRequirements: member.MissingRequirements,
		}, nil
	}

	if winner.ClaimStatus == models.ClaimStatusExpired || time.Now().After(winner.ClaimDeadlineAt) {
		return &ClaimEligibility{CanClaim: false, Reason: "claim period expired"}, nil
	}

	return &ClaimEligibility{CanClaim: true}, nil
}

// ClaimPrize performs the member-initiated PENDING -> CLAIMED transition and
// starts payout processing. This is the only legal exit from PENDING other
// than expiry.
func (s *WinnerServiceImpl) ClaimPrize(ctx context.Context, winnerID, userID primitive.ObjectID) (*models.PrizeDrawWinner, error) {
	winner, err := s.winnerRepo.FindByID(ctx, winnerID)
	if err != nil {
		return nil, fmt.Errorf("winner record not found: %w", err)
	}
	if winner.UserID != userID {
		return nil, ErrNotWinnerOwner
	}

	eligibility, err := s.CanClaimPrize(ctx, winnerID)
	if err != nil {
		return nil, err
	}
	if !eligibility.CanClaim {
		return nil, fmt.Errorf("%w: %s", ErrClaimNotAllowed, eligibility.Reason)
	}

	claimedAt := time.Now()
	ok, err := s.winnerRepo.MarkClaimed(ctx, winnerID, claimedAt)
	if err != nil {
		slog.Error("Failed to mark winner claimed", "error", err, "winnerId", winnerID)
		return nil, fmt.Errorf("failed to claim prize: %w", err)
	}
	if !ok {
		// Lost the race against expiry or a duplicate claim request.
		return nil, fmt.Errorf("%w: winner record is no longer pending", ErrClaimNotAllowed)
	}

	winner.ClaimStatus = models.ClaimStatusClaimed
	winner.ClaimedAt = &claimedAt
	winner.PayoutStatus = models.PayoutStatusProcessing

	if err := s.auditRepo.Append(ctx, &models.AuditRecord{
		Action:    "PRIZE_CLAIMED",
		ActorID:   userID,
		TargetID:  winnerID,
		Details:   fmt.Sprintf("draw=%s prize=%s", winner.DrawID.Hex(), winner.PrizeID.Hex()),
		Timestamp: claimedAt,
	}); err != nil {
		slog.Error("Failed to append claim audit record", "error", err, "winnerId", winnerID)
	}

	slog.Info("Prize claimed", "winnerId", winnerID, "userId", userID, "drawId", winner.DrawID)
	return winner, nil
}

// UpdatePayout applies an admin-driven payout transition. Legal moves:
// PENDING -> PROCESSING, PROCESSING -> PAID, and PENDING/PROCESSING -> BLOCKED
// with a reason.
func (s *WinnerServiceImpl) UpdatePayout(ctx context.Context, winnerID primitive.ObjectID, status models.PayoutStatus, blockedReason string, actorID primitive.ObjectID) error {
	winner, err := s.winnerRepo.FindByID(ctx, winnerID)
	if err != nil {
		return fmt.Errorf("winner record not found: %w", err)
	}

	switch status {
	case models.PayoutStatusProcessing:
		if winner.PayoutStatus != models.PayoutStatusPending {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidPayoutState, winner.PayoutStatus, status)
		}
	case models.PayoutStatusPaid:
		if winner.PayoutStatus != models.PayoutStatusProcessing {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidPayoutState, winner.PayoutStatus, status)
		}
	case models.PayoutStatusBlocked:
		if blockedReason == "" {
			return fmt.Errorf("%w: blocked transition requires a reason", ErrInvalidPayoutState)
		}
		if winner.PayoutStatus == models.PayoutStatusPaid {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidPayoutState, winner.PayoutStatus, status)
		}
	default:
		return fmt.Errorf("%w: unsupported target status %s", ErrInvalidPayoutState, status)
	}

	if err := s.winnerRepo.UpdatePayoutStatus(ctx, winnerID, status, blockedReason); err != nil {
		slog.Error("Failed to update payout status", "error", err, "winnerId", winnerID, "status", status)
		return fmt.Errorf("failed to update payout status: %w", err)
	}

	if err := s.auditRepo.Append(ctx, &models.AuditRecord{
		Action:    "PAYOUT_" + string(status),
		ActorID:   actorID,
		TargetID:  winnerID,
		Details:   blockedReason,
		Timestamp: time.Now(),
	}); err != nil {
		slog.Error("Failed to append payout audit record", "error", err, "winnerId", winnerID)
	}

	return nil
}

// GetWinnersByDrawID retrieves all winner records for a draw
func (s *WinnerServiceImpl) GetWinnersByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.PrizeDrawWinner, error) {
	winners, err := s.winnerRepo.FindByDrawID(ctx, drawID)
	if err != nil {
		slog.Error("Failed to get winners by draw ID", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to retrieve winners: %w", err)
	}
	return winners, nil
}
