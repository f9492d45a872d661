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

// Compile-time check to ensure ExecutionServiceImpl implements ExecutionService
var _ ExecutionService = (*ExecutionServiceImpl)(nil)

// ErrDrawNotRunnable is returned for a manual execution request when the draw
// is not in ACTIVE state (or another worker already claimed it).
var ErrDrawNotRunnable = errors.New("draw is not in ACTIVE state")

// ExecutionServiceImpl orchestrates due-draw execution: optimistic lock,
// per-prize selection and persistence, report generation, notification
// queuing, and completion or failure marking.
type ExecutionServiceImpl struct {
	drawRepo      repositories.DrawRepository
	prizeRepo     repositories.PrizeRepository
	entryRepo     repositories.EntryRepository
	eligibility   EligibilityService
	selection     SelectionService
	winners       WinnerService
	reports       ReportService
	notifications NotificationService
	auditRepo     repositories.AuditRepository
	tx            mongodb.TxRunner
	callTimeout   time.Duration
}

// NewExecutionService creates a new ExecutionServiceImpl
func NewExecutionService(
	drawRepo repositories.DrawRepository,
	prizeRepo repositories.PrizeRepository,
	entryRepo repositories.EntryRepository,
	eligibility EligibilityService,
	selection SelectionService,
	winners WinnerService,
	reports ReportService,
	notifications NotificationService,
	auditRepo repositories.AuditRepository,
	tx mongodb.TxRunner,
	callTimeout time.Duration,
) *ExecutionServiceImpl {
	return &ExecutionServiceImpl{
		drawRepo:      drawRepo,
		prizeRepo:     prizeRepo,
		entryRepo:     entryRepo,
		eligibility:   eligibility,
		selection:     selection,
		winners:       winners,
		reports:       reports,
		notifications: notifications,
		auditRepo:     auditRepo,
		tx:            tx,
		callTimeout:   callTimeout,
	}
}

// RunDueDraws finds active draws whose scheduled time has passed and executes
// each. Safe for concurrent invocation across workers: the per-draw CAS lock
// guarantees at most one full execution per draw.
func (s *ExecutionServiceImpl) RunDueDraws(ctx context.Context) (int, error) {
	draws, err := s.drawRepo.FindDue(ctx, time.Now())
	if err != nil {
		slog.Error("Failed to query due draws", "error", err)
		return 0, fmt.Errorf("failed to query due draws: %w", err)
	}

	executed := 0
	for _, draw := range draws {
		if err := s.ExecuteDraw(ctx, draw.ID, true); err != nil {
			// Failure is already persisted on the draw; keep processing the rest.
			slog.Error("Draw execution failed", "error", err, "drawId", draw.ID)
			continue
		}
		executed++
	}
	return executed, nil
}

// ExecuteDraw runs one draw end to end. The ACTIVE -> EXECUTING
// compare-and-swap serialises concurrent runners; a lost CAS is a silent skip
// for the scheduler and ErrDrawNotRunnable for a manual trigger.
func (s *ExecutionServiceImpl) ExecuteDraw(ctx context.Context, drawID primitive.ObjectID, autoExecuted bool) error {
	draw, err := s.drawRepo.FindByID(ctx, drawID)
	if err != nil {
		return fmt.Errorf("draw not found: %w", err)
	}

	locked, err := s.drawRepo.MarkExecuting(ctx, drawID)
	if err != nil {
		return fmt.Errorf("failed to acquire draw lock: %w", err)
	}
	if !locked {
		if autoExecuted {
			slog.Info("Draw already claimed by another runner, skipping", "drawId", drawID)
			return nil
		}
		return ErrDrawNotRunnable
	}

	numWinners, runErr := s.run(ctx, draw, autoExecuted)
	if runErr != nil {
		if err := s.drawRepo.MarkFailed(ctx, drawID, runErr.Error()); err != nil {
			slog.Error("CRITICAL: failed to mark draw as failed", "error", err, "drawId", drawID)
		}
		s.enqueueFailureNotification(ctx, drawID, runErr)
		return runErr
	}

	executedAt := time.Now()
	if err := s.drawRepo.MarkCompleted(ctx, drawID, executedAt, numWinners, draw.TotalEntries, draw.EligibleEntries); err != nil {
		slog.Error("CRITICAL: failed to mark draw as completed", "error", err, "drawId", drawID)
		return fmt.Errorf("failed to mark draw completed: %w", err)
	}

	if err := s.auditRepo.Append(ctx, &models.AuditRecord{
		Action:    "DRAW_EXECUTED",
		TargetID:  drawID,
		Details:   fmt.Sprintf("winners=%d auto=%t", numWinners, autoExecuted),
		Timestamp: executedAt,
	}); err != nil {
		slog.Error("Failed to append draw execution audit record", "error", err, "drawId", drawID)
	}

	slog.Info("Draw executed", "drawId", drawID, "winners", numWinners, "auto", autoExecuted)
	return nil
}

// run performs selection, persistence, and reporting for a locked draw. Any
// returned error moves the draw to FAILED; notification queuing alone is
// best-effort and never fails the draw.
func (s *ExecutionServiceImpl) run(ctx context.Context, draw *models.PrizeDraw, autoExecuted bool) (int, error) {
	prizes, err := s.prizeRepo.FindActiveByDrawID(ctx, draw.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch prizes: %w", err)
	}

	totalEntries, err := s.entryRepo.CountByDrawID(ctx, draw.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	pool, err := s.eligibility.ListEligibleEntries(ctx, draw.ID)
	if err != nil {
		return 0, err
	}
	draw.TotalEntries = int(totalEntries)
	draw.EligibleEntries = len(pool)

	totalWinners := 0
	results := make([]models.PrizeResult, 0, len(prizes))
	winnersByPrize := make(map[primitive.ObjectID][]primitive.ObjectID)

	for _, prize := range prizes {
		if prize.AwardType != models.AwardTypeRandomDraw {
			// Discretionary prizes are awarded through the admin path.
			continue
		}

		var selected []primitive.ObjectID
		txErr := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
			userIDs, err := s.selection.SelectRandomWinners(txCtx, draw.ID, prize.ID, prize.NumberOfWinners)
			if err != nil {
				return err
			}
			if _, err := s.winners.SaveWinners(txCtx, draw.ID, prize.ID, userIDs, prize.AwardType, nil); err != nil {
				return err
			}
			selected = userIDs
			return nil
		})
		if txErr != nil {
			if errors.Is(txErr, ErrNoEligibleEntries) {
				slog.Warn("No eligible entries for prize, recording zero winners",
					"drawId", draw.ID, "prizeId", prize.ID, "prize", prize.Name)
				results = append(results, models.PrizeResult{
					PrizeID:          prize.ID,
					PrizeName:        prize.Name,
					RequestedWinners: prize.NumberOfWinners,
					SelectedWinners:  0,
				})
				continue
			}
			return 0, fmt.Errorf("selection failed for prize %s: %w", prize.ID.Hex(), txErr)
		}

		winnersByPrize[prize.ID] = selected
		totalWinners += len(selected)
		results = append(results, models.PrizeResult{
			PrizeID:          prize.ID,
			PrizeName:        prize.Name,
			RequestedWinners: prize.NumberOfWinners,
			SelectedWinners:  len(selected),
		})
	}

	// The report must exist before the draw can be marked completed.
	reportCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	if err := s.reports.GenerateReport(reportCtx, draw, results, autoExecuted); err != nil {
		return 0, fmt.Errorf("failed to generate draw report: %w", err)
	}

	// Winners are durably recorded at this point, so notification queuing is
	// best-effort.
	for prizeID, userIDs := range winnersByPrize {
		for _, userID := range userIDs {
			notifCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			err := s.notifications.EnqueueWinnerNotification(notifCtx, draw.ID, userID, map[string]string{
				"prizeId": prizeID.Hex(),
			})
			cancel()
			if err != nil {
				slog.Error("Failed to enqueue winner notification, continuing",
					"error", err, "drawId", draw.ID, "userId", userID)
			}
		}
	}

	return totalWinners, nil
}

func (s *ExecutionServiceImpl) enqueueFailureNotification(ctx context.Context, drawID primitive.ObjectID, runErr error) {
	notifCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	if err := s.notifications.EnqueueDrawFailure(notifCtx, drawID, runErr.Error()); err != nil {
		slog.Error("Failed to enqueue draw failure notification", "error", err, "drawId", drawID)
	}
}
