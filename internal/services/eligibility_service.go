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

// Compile-time check to ensure EligibilityServiceImpl implements EligibilityService
var _ EligibilityService = (*EligibilityServiceImpl)(nil)

// EligibilityServiceImpl derives the eligible pool for a draw
type EligibilityServiceImpl struct {
	entryRepo      repositories.EntryRepository
	membershipRepo repositories.MembershipRepository
	memberRepo     repositories.MemberRepository
}

// NewEligibilityService creates a new EligibilityServiceImpl
func NewEligibilityService(
	entryRepo repositories.EntryRepository,
	membershipRepo repositories.MembershipRepository,
	memberRepo repositories.MemberRepository,
) *EligibilityServiceImpl {
	return &EligibilityServiceImpl{
		entryRepo:      entryRepo,
		membershipRepo: membershipRepo,
		memberRepo:     memberRepo,
	}
}

// ListEligibleEntries returns the entries allowed to win the draw: active
// membership, membership not past its end date, member not banned or
// suspended. A draw with no entries yields an empty pool, not an error.
func (s *EligibilityServiceImpl) ListEligibleEntries(ctx context.Context, drawID primitive.ObjectID) ([]EligibleEntry, error) {
	entries, err := s.entryRepo.FindByDrawID(ctx, drawID)
	if err != nil {
		slog.Error("Failed to fetch draw entries", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to fetch entries for draw: %w", err)
	}
	if len(entries) == 0 {
		return []EligibleEntry{}, nil
	}

	membershipIDs := make([]primitive.ObjectID, 0, len(entries))
	userIDs := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		membershipIDs = append(membershipIDs, e.MembershipID)
		userIDs = append(userIDs, e.UserID)
	}

	memberships, err := s.membershipRepo.FindByIDs(ctx, membershipIDs)
	if err != nil {
		slog.Error("Failed to fetch memberships for draw entries", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to fetch memberships: %w", err)
	}
	membershipByID := make(map[primitive.ObjectID]*models.Membership, len(memberships))
	for _, m := range memberships {
		membershipByID[m.ID] = m
	}

	members, err := s.memberRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		slog.Error("Failed to fetch member profiles for draw entries", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	memberByID := make(map[primitive.ObjectID]*models.Member, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}

	now := time.Now()
	eligible := make([]EligibleEntry, 0, len(entries))
	for _, e := range entries {
		membership, ok := membershipByID[e.MembershipID]
		if !ok || membership.Status != models.MembershipStatusActive {
			continue
		}
		if membership.EndDate.Before(now) {
			continue
		}
		member, ok := memberByID[e.UserID]
		if !ok || member.Role == models.MemberRoleBanned || member.Role == models.MemberRoleSuspended {
			continue
		}
		eligible = append(eligible, EligibleEntry{
			UserID:       e.UserID,
			EntryID:      e.ID,
			MembershipID: e.MembershipID,
		})
	}

	slog.Info("Eligibility pool computed", "drawId", drawID, "entries", len(entries), "eligible", len(eligible))
	return eligible, nil
}
