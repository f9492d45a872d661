package handlers

import (
	"errors"
	"net/http"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimHandler handles winner claim and payout HTTP requests
type ClaimHandler struct {
	winnerService services.WinnerService
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(winnerService services.WinnerService) *ClaimHandler {
	return &ClaimHandler{winnerService: winnerService}
}

// GetClaimEligibility handles GET /winners/:id/claim-eligibility
func (h *ClaimHandler) GetClaimEligibility(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	eligibility, err := h.winnerService.CanClaimPrize(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Winner record not found"})
		return
	}
	c.JSON(http.StatusOK, eligibility)
}

// ClaimPrize handles POST /winners/:id/claim
type ClaimPrizeRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *ClaimHandler) ClaimPrize(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request ClaimPrizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	winner, err := h.winnerService.ClaimPrize(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotWinnerOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrClaimNotAllowed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim prize: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, winner)
}

// UpdatePayout handles PATCH /winners/:id/payout
type UpdatePayoutRequest struct {
	Status        string `json:"status" binding:"required"`
	BlockedReason string `json:"blockedReason"`
}

func (h *ClaimHandler) UpdatePayout(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request UpdatePayoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The admin's identity comes from the validated token, not the payload.
	actorID := primitive.NilObjectID
	if sub, ok := c.Get("userID"); ok {
		if hex, ok := sub.(string); ok {
			if parsed, err := primitive.ObjectIDFromHex(hex); err == nil {
				actorID = parsed
			}
		}
	}

	err = h.winnerService.UpdatePayout(c.Request.Context(), id, models.PayoutStatus(request.Status), request.BlockedReason, actorID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPayoutState) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payout: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payout status updated"})
}
