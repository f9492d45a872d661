package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DrawHandler handles draw lifecycle HTTP requests
type DrawHandler struct {
	drawService      services.DrawService
	executionService services.ExecutionService
	expiryService    services.ExpiryService
	winnerService    services.WinnerService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(
	drawService services.DrawService,
	executionService services.ExecutionService,
	expiryService services.ExpiryService,
	winnerService services.WinnerService,
) *DrawHandler {
	return &DrawHandler{
		drawService:      drawService,
		executionService: executionService,
		expiryService:    expiryService,
		winnerService:    winnerService,
	}
}

// CreateDraw handles POST /draws
type CreateDrawRequest struct {
	Country            string  `json:"country" binding:"required"`
	ScheduledAt        string  `json:"scheduledAt" binding:"required"` // RFC 3339
	EstimatedPoolSize  int     `json:"estimatedPoolSize"`
	EstimatedPrizeFund float64 `json:"estimatedPrizeFund"`
}

func (h *DrawHandler) CreateDraw(c *gin.Context) {
	var request CreateDrawRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, request.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheduledAt format (RFC 3339)"})
		return
	}

	draw, err := h.drawService.CreateDraw(c.Request.Context(), request.Country, scheduledAt, request.EstimatedPoolSize, request.EstimatedPrizeFund)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create draw: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, draw)
}

// AddPrize handles POST /draws/:id/prizes
type AddPrizeRequest struct {
	Name            string  `json:"name" binding:"required"`
	Value           float64 `json:"value"`
	AwardType       string  `json:"awardType" binding:"required"`
	NumberOfWinners int     `json:"numberOfWinners" binding:"required,min=1"`
}

func (h *DrawHandler) AddPrize(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request AddPrizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prize, err := h.drawService.AddPrize(c.Request.Context(), id, request.Name, request.Value, models.AwardType(request.AwardType), request.NumberOfWinners)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDrawTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to add prize: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, prize)
}

// AnnounceDraw handles POST /draws/:id/announce
func (h *DrawHandler) AnnounceDraw(c *gin.Context) {
	h.lifecycleTransition(c, h.drawService.AnnounceDraw, "Draw announced")
}

// ActivateDraw handles POST /draws/:id/activate
func (h *DrawHandler) ActivateDraw(c *gin.Context) {
	h.lifecycleTransition(c, h.drawService.ActivateDraw, "Draw activated")
}

// CancelDraw handles POST /draws/:id/cancel
func (h *DrawHandler) CancelDraw(c *gin.Context) {
	h.lifecycleTransition(c, h.drawService.CancelDraw, "Draw cancelled")
}

func (h *DrawHandler) lifecycleTransition(c *gin.Context, transition func(ctx context.Context, id primitive.ObjectID) error, message string) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := transition(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrInvalidDrawTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// ExecuteDraw handles POST /draws/:id/execute
func (h *DrawHandler) ExecuteDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.executionService.ExecuteDraw(c.Request.Context(), id, false); err != nil {
		if errors.Is(err, services.ErrDrawNotRunnable) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Draw execution failed: " + err.Error()})
		}
		return
	}

	draw, err := h.drawService.GetDrawByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Draw executed successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw executed successfully", "draw": draw})
}

// ExpireAndRedraw handles POST /draws/:id/expire-redraw
func (h *DrawHandler) ExpireAndRedraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	result, err := h.expiryService.ExpireAndRedraw(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Expiry pass failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDrawByID handles GET /draws/:id
func (h *DrawHandler) GetDrawByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	draw, err := h.drawService.GetDrawByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draw not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve draw: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, draw)
}

// GetDraws handles GET /draws?status=ACTIVE,COMPLETED or ?start=...&end=...
func (h *DrawHandler) GetDraws(c *gin.Context) {
	var statuses []models.DrawStatus
	if statusParam := c.Query("status"); statusParam != "" {
		for _, s := range splitNonEmpty(statusParam) {
			statuses = append(statuses, models.DrawStatus(s))
		}
	}

	start, end := time.Time{}, time.Now().AddDate(1, 0, 0)
	if startParam := c.Query("start"); startParam != "" {
		parsed, err := time.Parse("2006-01-02", startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date format (YYYY-MM-DD)"})
			return
		}
		start = parsed
	}
	if endParam := c.Query("end"); endParam != "" {
		parsed, err := time.Parse("2006-01-02", endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date format (YYYY-MM-DD)"})
			return
		}
		end = parsed
	}

	draws, err := h.drawService.GetDraws(c.Request.Context(), statuses, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve draws: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, draws)
}

// GetDrawWinners handles GET /draws/:id/winners
func (h *DrawHandler) GetDrawWinners(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	winners, err := h.winnerService.GetWinnersByDrawID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve winners: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, winners)
}

// EnterDraw handles POST /draws/:id/entries
type EnterDrawRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *DrawHandler) EnterDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request EnterDrawRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	entry, created, err := h.drawService.EnsureEntry(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDrawNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrMemberNotEligible):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enter draw: " + err.Error()})
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, entry)
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
