package services

import (
	"context"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// passthroughTx runs the transaction body directly, with no session.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockDrawRepo struct{ mock.Mock }

func (m *mockDrawRepo) Create(ctx context.Context, draw *models.PrizeDraw) error {
	return m.Called(ctx, draw).Error(0)
}

func (m *mockDrawRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PrizeDraw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PrizeDraw), args.Error(1)
}

func (m *mockDrawRepo) FindByStatus(ctx context.Context, statuses []models.DrawStatus) ([]*models.PrizeDraw, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrizeDraw), args.Error(1)
}

func (m *mockDrawRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.PrizeDraw, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrizeDraw), args.Error(1)
}

func (m *mockDrawRepo) Update(ctx context.Context, draw *models.PrizeDraw) error {
	return m.Called(ctx, draw).Error(0)
}

func (m *mockDrawRepo) FindDue(ctx context.Context, now time.Time) ([]*models.PrizeDraw, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrizeDraw), args.Error(1)
}

func (m *mockDrawRepo) MarkExecuting(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockDrawRepo) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.DrawStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockDrawRepo) MarkCompleted(ctx context.Context, id primitive.ObjectID, executedAt time.Time, numWinners, totalEntries, eligibleEntries int) error {
	return m.Called(ctx, id, executedAt, numWinners, totalEntries, eligibleEntries).Error(0)
}

func (m *mockDrawRepo) MarkFailed(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	return m.Called(ctx, id, errorMessage).Error(0)
}

type mockPrizeRepo struct{ mock.Mock }

func (m *mockPrizeRepo) Create(ctx context.Context, prize *models.Prize) error {
	return m.Called(ctx, prize).Error(0)
}

func (m *mockPrizeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prize), args.Error(1)
}

func (m *mockPrizeRepo) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Prize, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prize), args.Error(1)
}

func (m *mockPrizeRepo) FindActiveByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Prize, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prize), args.Error(1)
}

func (m *mockPrizeRepo) Update(ctx context.Context, prize *models.Prize) error {
	return m.Called(ctx, prize).Error(0)
}

type mockEntryRepo struct{ mock.Mock }

func (m *mockEntryRepo) Ensure(ctx context.Context, entry *models.PrizeDrawEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *mockEntryRepo) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.PrizeDrawEntry, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrizeDrawEntry), args.Error(1)
}

func (m *mockEntryRepo) CountByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, drawID)
	return args.Get(0).(int64), args.Error(1)
}

type mockWinnerRepo struct{ mock.Mock }

func (m *mockWinnerRepo) CreateMany(ctx context.Context, winners []*models.PrizeDrawWinner) error {
	return m.Called(ctx, winners).Error(0)
}

func (m *mockWinnerRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PrizeDrawWinner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PrizeDrawWinner), args.Error(1)
}

func (m *mockWinnerRepo) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.PrizeDrawWinner, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrizeDrawWinner), args.Error(1)
}

func (m *mockWinnerRepo) FindByPrizeID(ctx context.Context, prizeID primitive.ObjectID) ([]*models.PrizeDrawWinner, error) {
	args := m.Called(ctx, prizeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrizeDrawWinner), args.Error(1)
}

func (m *mockWinnerRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PrizeDrawWinner, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrizeDrawWinner), args.Error(1)
}

func (m *mockWinnerRepo) FindPendingExpired(ctx context.Context, drawID primitive.ObjectID, now time.Time) ([]*models.PrizeDrawWinner, error) {
	args := m.Called(ctx, drawID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrizeDrawWinner), args.Error(1)
}

func (m *mockWinnerRepo) MarkExpired(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWinnerRepo) MarkClaimed(ctx context.Context, id primitive.ObjectID, claimedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, claimedAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockWinnerRepo) UpdatePayoutStatus(ctx context.Context, id primitive.ObjectID, status models.PayoutStatus, blockedReason string) error {
	return m.Called(ctx, id, status, blockedReason).Error(0)
}

type mockMemberRepo struct{ mock.Mock }

func (m *mockMemberRepo) Create(ctx context.Context, member *models.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *mockMemberRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *mockMemberRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Member, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

type mockMembershipRepo struct{ mock.Mock }

func (m *mockMembershipRepo) Create(ctx context.Context, membership *models.Membership) error {
	return m.Called(ctx, membership).Error(0)
}

func (m *mockMembershipRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Membership, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Membership), args.Error(1)
}

func (m *mockMembershipRepo) FindActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *mockNotificationRepo) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Notification, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

type mockAuditRepo struct{ mock.Mock }

func (m *mockAuditRepo) Append(ctx context.Context, record *models.AuditRecord) error {
	return m.Called(ctx, record).Error(0)
}

type mockReportRepo struct{ mock.Mock }

func (m *mockReportRepo) Create(ctx context.Context, report *models.DrawReport) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockReportRepo) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) (*models.DrawReport, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DrawReport), args.Error(1)
}

type mockAdminUserRepo struct{ mock.Mock }

func (m *mockAdminUserRepo) Create(ctx context.Context, adminUser *models.AdminUser) error {
	return m.Called(ctx, adminUser).Error(0)
}

func (m *mockAdminUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

type mockEligibilityService struct{ mock.Mock }

func (m *mockEligibilityService) ListEligibleEntries(ctx context.Context, drawID primitive.ObjectID) ([]EligibleEntry, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]EligibleEntry), args.Error(1)
}

type mockSelectionService struct{ mock.Mock }

func (m *mockSelectionService) SelectRandomWinners(ctx context.Context, drawID, prizeID primitive.ObjectID, numberOfWinners int) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, drawID, prizeID, numberOfWinners)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *mockSelectionService) SelectReplacementWinner(ctx context.Context, drawID, prizeID primitive.ObjectID) (primitive.ObjectID, error) {
	args := m.Called(ctx, drawID, prizeID)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

type mockWinnerService struct{ mock.Mock }

func (m *mockWinnerService) SaveWinners(ctx context.Context, drawID, prizeID primitive.ObjectID, userIDs []primitive.ObjectID, awardType models.AwardType, selectedByAdmin *primitive.ObjectID) (int, error) {
	args := m.Called(ctx, drawID, prizeID, userIDs, awardType, selectedByAdmin)
	return args.Int(0), args.Error(1)
}

func (m *mockWinnerService) CanClaimPrize(ctx context.Context, winnerID primitive.ObjectID) (*ClaimEligibility, error) {
	args := m.Called(ctx, winnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClaimEligibility), args.Error(1)
}

func (m *mockWinnerService) ClaimPrize(ctx context.Context, winnerID, userID primitive.ObjectID) (*models.PrizeDrawWinner, error) {
	args := m.Called(ctx, winnerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PrizeDrawWinner), args.Error(1)
}

func (m *mockWinnerService) UpdatePayout(ctx context.Context, winnerID primitive.ObjectID, status models.PayoutStatus, blockedReason string, actorID primitive.ObjectID) error {
	return m.Called(ctx, winnerID, status, blockedReason, actorID).Error(0)
}

func (m *mockWinnerService) GetWinnersByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.PrizeDrawWinner, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrizeDrawWinner), args.Error(1)
}

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) EnqueueWinnerNotification(ctx context.Context, drawID, userID primitive.ObjectID, templateData map[string]string) error {
	return m.Called(ctx, drawID, userID, templateData).Error(0)
}

func (m *mockNotificationService) EnqueueDrawFailure(ctx context.Context, drawID primitive.ObjectID, detail string) error {
	return m.Called(ctx, drawID, detail).Error(0)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) GenerateReport(ctx context.Context, draw *models.PrizeDraw, results []models.PrizeResult, autoExecuted bool) error {
	return m.Called(ctx, draw, results, autoExecuted).Error(0)
}
