package services

import (
	"context"
	"testing"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newDrawServiceFixture() (*DrawServiceImpl, *mockDrawRepo, *mockPrizeRepo, *mockEntryRepo, *mockMembershipRepo) {
	drawRepo := new(mockDrawRepo)
	prizeRepo := new(mockPrizeRepo)
	entryRepo := new(mockEntryRepo)
	membershipRepo := new(mockMembershipRepo)
	auditRepo := new(mockAuditRepo)
	auditRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	svc := NewDrawService(drawRepo, prizeRepo, entryRepo, membershipRepo, auditRepo)
	return svc, drawRepo, prizeRepo, entryRepo, membershipRepo
}

func TestCreateDraw_StartsAsDraft(t *testing.T) {
	svc, drawRepo, _, _, _ := newDrawServiceFixture()
	drawRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *models.PrizeDraw) bool {
		return d.Status == models.DrawStatusDraft && d.Country == "GB"
	})).Return(nil)

	draw, err := svc.CreateDraw(context.Background(), "GB", time.Now().Add(time.Hour), 100, 500)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusDraft, draw.Status)
}

func TestCreateDraw_RejectsPastSchedule(t *testing.T) {
	svc, _, _, _, _ := newDrawServiceFixture()
	_, err := svc.CreateDraw(context.Background(), "GB", time.Now().Add(-time.Hour), 0, 0)
	assert.Error(t, err)
}

func TestAddPrize_RejectedAfterActivation(t *testing.T) {
	svc, drawRepo, _, _, _ := newDrawServiceFixture()
	draw := &models.PrizeDraw{ID: primitive.NewObjectID(), Status: models.DrawStatusActive}
	drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)

	_, err := svc.AddPrize(context.Background(), draw.ID, "Cash prize", 100, models.AwardTypeRandomDraw, 1)
	assert.ErrorIs(t, err, ErrInvalidDrawTransition)
}

func TestAnnounceDraw_RequiresActivePrize(t *testing.T) {
	svc, _, prizeRepo, _, _ := newDrawServiceFixture()
	drawID := primitive.NewObjectID()
	prizeRepo.On("FindActiveByDrawID", mock.Anything, drawID).Return([]*models.Prize{}, nil)

	err := svc.AnnounceDraw(context.Background(), drawID)
	assert.Error(t, err)
}

func TestActivateDraw_WrongStateRejected(t *testing.T) {
	svc, drawRepo, _, _, _ := newDrawServiceFixture()
	drawID := primitive.NewObjectID()
	drawRepo.On("TransitionStatus", mock.Anything, drawID, models.DrawStatusAnnounced, models.DrawStatusActive).Return(false, nil)

	err := svc.ActivateDraw(context.Background(), drawID)
	assert.ErrorIs(t, err, ErrInvalidDrawTransition)
}

func TestCancelDraw_CompletedDrawRejected(t *testing.T) {
	svc, drawRepo, _, _, _ := newDrawServiceFixture()
	draw := &models.PrizeDraw{ID: primitive.NewObjectID(), Status: models.DrawStatusCompleted}
	drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)

	err := svc.CancelDraw(context.Background(), draw.ID)
	assert.ErrorIs(t, err, ErrInvalidDrawTransition)
}

func TestEnsureEntry_Idempotent(t *testing.T) {
	svc, drawRepo, _, entryRepo, membershipRepo := newDrawServiceFixture()
	draw := &models.PrizeDraw{ID: primitive.NewObjectID(), Status: models.DrawStatusActive}
	userID := primitive.NewObjectID()
	membership := &models.Membership{
		ID:      primitive.NewObjectID(),
		UserID:  userID,
		Status:  models.MembershipStatusActive,
		EndDate: time.Now().AddDate(1, 0, 0),
	}

	drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)
	membershipRepo.On("FindActiveByUserID", mock.Anything, userID).Return(membership, nil)
	entryRepo.On("Ensure", mock.Anything, mock.Anything).Return(true, nil).Once()
	entryRepo.On("Ensure", mock.Anything, mock.Anything).Return(false, nil).Once()

	_, created, err := svc.EnsureEntry(context.Background(), draw.ID, userID)
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = svc.EnsureEntry(context.Background(), draw.ID, userID)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureEntry_DrawNotOpen(t *testing.T) {
	svc, drawRepo, _, _, _ := newDrawServiceFixture()
	draw := &models.PrizeDraw{ID: primitive.NewObjectID(), Status: models.DrawStatusCompleted}
	drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)

	_, _, err := svc.EnsureEntry(context.Background(), draw.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrDrawNotOpen)
}

func TestEnsureEntry_NoActiveMembership(t *testing.T) {
	svc, drawRepo, _, _, membershipRepo := newDrawServiceFixture()
	draw := &models.PrizeDraw{ID: primitive.NewObjectID(), Status: models.DrawStatusActive}
	userID := primitive.NewObjectID()

	drawRepo.On("FindByID", mock.Anything, draw.ID).Return(draw, nil)
	membershipRepo.On("FindActiveByUserID", mock.Anything, userID).Return(nil, nil)

	_, _, err := svc.EnsureEntry(context.Background(), draw.ID, userID)
	assert.ErrorIs(t, err, ErrMemberNotEligible)
}
