package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SelectionServiceImpl implements SelectionService
var _ SelectionService = (*SelectionServiceImpl)(nil)

var (
	// ErrNoEligibleEntries signals an empty eligible pool before any
	// prior-winner exclusion is applied.
	ErrNoEligibleEntries = errors.New("no eligible entries for draw")
	// ErrPrizePoolExhausted signals that every eligible member already holds a
	// winner row for the prize, so no replacement can be drawn.
	ErrPrizePoolExhausted = errors.New("no eligible replacement candidates for prize")
)

// SelectionServiceImpl draws winners using crypto/rand
type SelectionServiceImpl struct {
	eligibility EligibilityService
	winnerRepo  repositories.WinnerRepository
}

// NewSelectionService creates a new SelectionServiceImpl
func NewSelectionService(eligibility EligibilityService, winnerRepo repositories.WinnerRepository) *SelectionServiceImpl {
	return &SelectionServiceImpl{
		eligibility: eligibility,
		winnerRepo:  winnerRepo,
	}
}

// SelectRandomWinners draws up to numberOfWinners unique users from the
// eligible pool. Users who already won anything in this draw are excluded
// first; if that exclusion empties the pool the unfiltered pool is used
// instead. That fallback is a deliberate policy: prefer winner diversity, but
// never fail a draw for lack of untouched users in a small member base.
func (s *SelectionServiceImpl) SelectRandomWinners(ctx context.Context, drawID, prizeID primitive.ObjectID, numberOfWinners int) ([]primitive.ObjectID, error) {
	if numberOfWinners <= 0 {
		return []primitive.ObjectID{}, nil
	}

	pool, err := s.eligibility.ListEligibleEntries(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrNoEligibleEntries
	}

	existing, err := s.winnerRepo.FindByDrawID(ctx, drawID)
	if err != nil {
		slog.Error("Failed to fetch existing winners for draw", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to fetch existing winners: %w", err)
	}
	alreadyWon := make(map[primitive.ObjectID]bool, len(existing))
	for _, w := range existing {
		alreadyWon[w.UserID] = true
	}

	candidates := make([]EligibleEntry, 0, len(pool))
	for _, e := range pool {
		if !alreadyWon[e.UserID] {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		slog.Warn("All eligible members already won in this draw, falling back to unfiltered pool",
			"drawId", drawID, "prizeId", prizeID, "poolSize", len(pool))
		candidates = pool
	}

	actualCount := numberOfWinners
	if actualCount > len(candidates) {
		actualCount = len(candidates)
	}

	picked, err := pickUnique(candidates, actualCount)
	if err != nil {
		return nil, err
	}

	slog.Info("Winners selected", "drawId", drawID, "prizeId", prizeID,
		"requested", numberOfWinners, "selected", len(picked), "poolSize", len(candidates))
	return picked, nil
}

// SelectReplacementWinner draws exactly one user for a redraw. Every user who
// has ever held a winner row for the prize, whatever its status, is excluded;
// there is no fallback here since re-awarding the same prize to a lapsed
// winner would defeat the redraw.
func (s *SelectionServiceImpl) SelectReplacementWinner(ctx context.Context, drawID, prizeID primitive.ObjectID) (primitive.ObjectID, error) {
	pool, err := s.eligibility.ListEligibleEntries(ctx, drawID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if len(pool) == 0 {
		return primitive.NilObjectID, ErrNoEligibleEntries
	}

	priorWinners, err := s.winnerRepo.FindByPrizeID(ctx, prizeID)
	if err != nil {
		slog.Error("Failed to fetch prior winners for prize", "error", err, "prizeId", prizeID)
		return primitive.NilObjectID, fmt.Errorf("failed to fetch prize winners: %w", err)
	}
	excluded := make(map[primitive.ObjectID]bool, len(priorWinners))
	for _, w := range priorWinners {
		excluded[w.UserID] = true
	}

	candidates := make([]EligibleEntry, 0, len(pool))
	for _, e := range pool {
		if !excluded[e.UserID] {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return primitive.NilObjectID, ErrPrizePoolExhausted
	}

	picked, err := pickUnique(candidates, 1)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return picked[0], nil
}

// pickUnique samples count unique user ids from the pool without replacement,
// by rejection: draw a uniform index, retry on collision. Pools are small
// relative to the entropy space so collisions are cheap.
func pickUnique(pool []EligibleEntry, count int) ([]primitive.ObjectID, error) {
	chosen := make(map[int]bool, count)
	result := make([]primitive.ObjectID, 0, count)
	for len(result) < count {
		idx, err := secureIndex(len(pool))
		if err != nil {
			return nil, err
		}
		if chosen[idx] {
			continue
		}
		chosen[idx] = true
		result = append(result, pool[idx].UserID)
	}
	return result, nil
}

// secureIndex returns a uniformly random index in [0, n) from crypto/rand
func secureIndex(n int) (int, error) {
	if n <= 0 {
		return 0, errors.New("pool size must be positive")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read secure random source: %w", err)
	}
	return int(v.Int64()), nil
}
