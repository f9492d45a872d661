package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type executionFixture struct {
	drawRepo      *mockDrawRepo
	prizeRepo     *mockPrizeRepo
	entryRepo     *mockEntryRepo
	eligibility   *mockEligibilityService
	selection     *mockSelectionService
	winners       *mockWinnerService
	reports       *mockReportService
	notifications *mockNotificationService
	auditRepo     *mockAuditRepo
	svc           *ExecutionServiceImpl
}

func newExecutionFixture() *executionFixture {
	f := &executionFixture{
		drawRepo:      new(mockDrawRepo),
		prizeRepo:     new(mockPrizeRepo),
		entryRepo:     new(mockEntryRepo),
		eligibility:   new(mockEligibilityService),
		selection:     new(mockSelectionService),
		winners:       new(mockWinnerService),
		reports:       new(mockReportService),
		notifications: new(mockNotificationService),
		auditRepo:     new(mockAuditRepo),
	}
	f.svc = NewExecutionService(
		f.drawRepo, f.prizeRepo, f.entryRepo,
		f.eligibility, f.selection, f.winners,
		f.reports, f.notifications, f.auditRepo,
		passthroughTx{}, 5*time.Second,
	)
	return f
}

func activeDraw() *models.PrizeDraw {
	return &models.PrizeDraw{
		ID:          primitive.NewObjectID(),
		Country:     "GB",
		ScheduledAt: time.Now().Add(-time.Minute),
		Status:      models.DrawStatusActive,
	}
}

func TestExecuteDraw_Success(t *testing.T) {
	f := newExecutionFixture()
	draw := activeDraw()
	prize := &models.Prize{
		ID:              primitive.NewObjectID(),
		DrawID:          draw.ID,
		Name:            "Cash prize",
		AwardType:       models.AwardTypeRandomDraw,
		NumberOfWinners: 2,
		Active:          true,
	}
	discretionary := &models.Prize{
		ID:              primitive.NewObjectID(),
		DrawID:          draw.ID,
		Name:            "Founder's pick",
		AwardType:       models.AwardTypeDiscretionary,
		NumberOfWinners: 1,
		Active:          true,
	}
	selected := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	f.drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)
	f.drawRepo.On("MarkExecuting", mock.Anything, draw.ID).Return(true, nil)
	f.prizeRepo.On("FindActiveByDrawID", mock.Anything, draw.ID).Return([]*models.Prize{prize, discretionary}, nil)
	f.entryRepo.On("CountByDrawID", mock.Anything, draw.ID).Return(int64(40), nil)
	f.eligibility.On("ListEligibleEntries", mock.Anything, draw.ID).Return(makePool(30), nil)
	f.selection.On("SelectRandomWinners", mock.Anything, draw.ID, prize.ID, 2).Return(selected, nil)
	f.winners.On("SaveWinners", mock.Anything, draw.ID, prize.ID, selected, models.AwardTypeRandomDraw, mock.Anything).Return(2, nil)
	f.reports.On("GenerateReport", mock.Anything, draw, mock.MatchedBy(func(results []models.PrizeResult) bool {
		return len(results) == 1 && results[0].SelectedWinners == 2 && results[0].RequestedWinners == 2
	}), true).Return(nil)
	f.notifications.On("EnqueueWinnerNotification", mock.Anything, draw.ID, mock.Anything, mock.Anything).Return(nil)
	f.drawRepo.On("MarkCompleted", mock.Anything, draw.ID, mock.Anything, 2, 40, 30).Return(nil)
	f.auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	err := f.svc.ExecuteDraw(context.Background(), draw.ID, true)
	require.NoError(t, err)

	// Discretionary prizes are never drawn automatically.
	f.selection.AssertNumberOfCalls(t, "SelectRandomWinners", 1)
	f.notifications.AssertNumberOfCalls(t, "EnqueueWinnerNotification", 2)
	// The entry counts observed during execution are persisted on completion.
	f.drawRepo.AssertCalled(t, "MarkCompleted", mock.Anything, draw.ID, mock.Anything, 2, 40, 30)
	f.drawRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteDraw_LostLockIsSilentForScheduler(t *testing.T) {
	f := newExecutionFixture()
	draw := activeDraw()

	f.drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)
	f.drawRepo.On("MarkExecuting", mock.Anything, draw.ID).Return(false, nil)

	err := f.svc.ExecuteDraw(context.Background(), draw.ID, true)
	assert.NoError(t, err)
	f.prizeRepo.AssertNotCalled(t, "FindActiveByDrawID", mock.Anything, mock.Anything)
}

func TestExecuteDraw_LostLockRejectsManualTrigger(t *testing.T) {
	f := newExecutionFixture()
	draw := activeDraw()

	f.drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)
	f.drawRepo.On("MarkExecuting", mock.Anything, draw.ID).Return(false, nil)

	err := f.svc.ExecuteDraw(context.Background(), draw.ID, false)
	assert.ErrorIs(t, err, ErrDrawNotRunnable)
}

func TestExecuteDraw_EmptyPoolCompletesWithZeroWinners(t *testing.T) {
	f := newExecutionFixture()
	draw := activeDraw()
	prize := &models.Prize{
		ID:              primitive.NewObjectID(),
		DrawID:          draw.ID,
		Name:            "Cash prize",
		AwardType:       models.AwardTypeRandomDraw,
		NumberOfWinners: 3,
		Active:          true,
	}

	f.drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)
	f.drawRepo.On("MarkExecuting", mock.Anything, draw.ID).Return(true, nil)
	f.prizeRepo.On("FindActiveByDrawID", mock.Anything, draw.ID).Return([]*models.Prize{prize}, nil)
	f.entryRepo.On("CountByDrawID", mock.Anything, draw.ID).Return(int64(0), nil)
	f.eligibility.On("ListEligibleEntries", mock.Anything, draw.ID).Return([]EligibleEntry{}, nil)
	f.selection.On("SelectRandomWinners", mock.Anything, draw.ID, prize.ID, 3).Return(nil, ErrNoEligibleEntries)
	f.reports.On("GenerateReport", mock.Anything, draw, mock.MatchedBy(func(results []models.PrizeResult) bool {
		return len(results) == 1 && results[0].SelectedWinners == 0
	}), true).Return(nil)
	f.drawRepo.On("MarkCompleted", mock.Anything, draw.ID, mock.Anything, 0, 0, 0).Return(nil)
	f.auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	err := f.svc.ExecuteDraw(context.Background(), draw.ID, true)
	require.NoError(t, err)
	f.drawRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteDraw_SelectionFailureMarksDrawFailed(t *testing.T) {
	f := newExecutionFixture()
	draw := activeDraw()
	prize := &models.Prize{
		ID:              primitive.NewObjectID(),
		DrawID:          draw.ID,
		AwardType:       models.AwardTypeRandomDraw,
		NumberOfWinners: 1,
		Active:          true,
	}

	f.drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)
	f.drawRepo.On("MarkExecuting", mock.Anything, draw.ID).Return(true, nil)
	f.prizeRepo.On("FindActiveByDrawID", mock.Anything, draw.ID).Return([]*models.Prize{prize}, nil)
	f.entryRepo.On("CountByDrawID", mock.Anything, draw.ID).Return(int64(10), nil)
	f.eligibility.On("ListEligibleEntries", mock.Anything, draw.ID).Return(makePool(10), nil)
	f.selection.On("SelectRandomWinners", mock.Anything, draw.ID, prize.ID, 1).Return(nil, errors.New("random source unavailable"))
	f.drawRepo.On("MarkFailed", mock.Anything, draw.ID, mock.Anything).Return(nil)
	f.notifications.On("EnqueueDrawFailure", mock.Anything, draw.ID, mock.Anything).Return(nil)

	err := f.svc.ExecuteDraw(context.Background(), draw.ID, true)
	require.Error(t, err)
	f.drawRepo.AssertCalled(t, "MarkFailed", mock.Anything, draw.ID, mock.Anything)
	f.notifications.AssertCalled(t, "EnqueueDrawFailure", mock.Anything, draw.ID, mock.Anything)
	f.drawRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteDraw_ReportFailureMarksDrawFailed(t *testing.T) {
	f := newExecutionFixture()
	draw := activeDraw()
	prize := &models.Prize{
		ID:              primitive.NewObjectID(),
		DrawID:          draw.ID,
		AwardType:       models.AwardTypeRandomDraw,
		NumberOfWinners: 1,
		Active:          true,
	}
	selected := []primitive.ObjectID{primitive.NewObjectID()}

	f.drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)
	f.drawRepo.On("MarkExecuting", mock.Anything, draw.ID).Return(true, nil)
	f.prizeRepo.On("FindActiveByDrawID", mock.Anything, draw.ID).Return([]*models.Prize{prize}, nil)
	f.entryRepo.On("CountByDrawID", mock.Anything, draw.ID).Return(int64(10), nil)
	f.eligibility.On("ListEligibleEntries", mock.Anything, draw.ID).Return(makePool(10), nil)
	f.selection.On("SelectRandomWinners", mock.Anything, draw.ID, prize.ID, 1).Return(selected, nil)
	f.winners.On("SaveWinners", mock.Anything, draw.ID, prize.ID, selected, models.AwardTypeRandomDraw, mock.Anything).Return(1, nil)
	f.reports.On("GenerateReport", mock.Anything, draw, mock.Anything, true).Return(errors.New("report store down"))
	f.drawRepo.On("MarkFailed", mock.Anything, draw.ID, mock.Anything).Return(nil)
	f.notifications.On("EnqueueDrawFailure", mock.Anything, draw.ID, mock.Anything).Return(nil)

	err := f.svc.ExecuteDraw(context.Background(), draw.ID, true)
	require.Error(t, err)
	f.drawRepo.AssertCalled(t, "MarkFailed", mock.Anything, draw.ID, mock.Anything)
}

func TestExecuteDraw_NotificationFailureDoesNotFailDraw(t *testing.T) {
	f := newExecutionFixture()
	draw := activeDraw()
	prize := &models.Prize{
		ID:              primitive.NewObjectID(),
		DrawID:          draw.ID,
		AwardType:       models.AwardTypeRandomDraw,
		NumberOfWinners: 1,
		Active:          true,
	}
	selected := []primitive.ObjectID{primitive.NewObjectID()}

	f.drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)
	f.drawRepo.On("MarkExecuting", mock.Anything, draw.ID).Return(true, nil)
	f.prizeRepo.On("FindActiveByDrawID", mock.Anything, draw.ID).Return([]*models.Prize{prize}, nil)
	f.entryRepo.On("CountByDrawID", mock.Anything, draw.ID).Return(int64(10), nil)
	f.eligibility.On("ListEligibleEntries", mock.Anything, draw.ID).Return(makePool(10), nil)
	f.selection.On("SelectRandomWinners", mock.Anything, draw.ID, prize.ID, 1).Return(selected, nil)
	f.winners.On("SaveWinners", mock.Anything, draw.ID, prize.ID, selected, models.AwardTypeRandomDraw, mock.Anything).Return(1, nil)
	f.reports.On("GenerateReport", mock.Anything, draw, mock.Anything, true).Return(nil)
	f.notifications.On("EnqueueWinnerNotification", mock.Anything, draw.ID, selected[0], mock.Anything).Return(errors.New("queue full"))
	f.drawRepo.On("MarkCompleted", mock.Anything, draw.ID, mock.Anything, 1, 10, 10).Return(nil)
	f.auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	err := f.svc.ExecuteDraw(context.Background(), draw.ID, true)
	assert.NoError(t, err)
	f.drawRepo.AssertCalled(t, "MarkCompleted", mock.Anything, draw.ID, mock.Anything, 1, 10, 10)
}

func TestRunDueDraws_ContinuesPastFailures(t *testing.T) {
	f := newExecutionFixture()
	failing := activeDraw()
	healthy := activeDraw()

	f.drawRepo.On("FindDue", mock.Anything, mock.Anything).Return([]*models.PrizeDraw{failing, healthy}, nil)

	// First draw fails to lock-check, second one skips via lost CAS.
	f.drawRepo.On("FindByID", mock.Anything, failing.ID).Return(nil, errors.New("connection reset"))
	f.drawRepo.On("FindByID", mock.Anything, healthy.ID).Return(healthy, nil)
	f.drawRepo.On("MarkExecuting", mock.Anything, healthy.ID).Return(false, nil)

	executed, err := f.svc.RunDueDraws(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, executed)
}
