package routes

import (
	"net/http"

	"github.com/MigraSafe/migrasafe-backend/internal/config"
	"github.com/MigraSafe/migrasafe-backend/internal/handlers"
	"github.com/MigraSafe/migrasafe-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies carries the handlers wired up in main
type HandlerDependencies struct {
	AuthHandler  *handlers.AuthHandler
	DrawHandler  *handlers.DrawHandler
	ClaimHandler *handlers.ClaimHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Member-facing routes
		public.POST("/draws/:id/entries", deps.DrawHandler.EnterDraw)
		public.GET("/winners/:id/claim-eligibility", deps.ClaimHandler.GetClaimEligibility)
		public.POST("/winners/:id/claim", deps.ClaimHandler.ClaimPrize)
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg))
	admin.Use(middleware.RequireRole("admin"))
	{
		draws := admin.Group("/draws")
		{
			draws.GET("", deps.DrawHandler.GetDraws)
			draws.GET("/:id", deps.DrawHandler.GetDrawByID)
			draws.GET("/:id/winners", deps.DrawHandler.GetDrawWinners)
			draws.POST("", deps.DrawHandler.CreateDraw)
			draws.POST("/:id/prizes", deps.DrawHandler.AddPrize)
			draws.POST("/:id/announce", deps.DrawHandler.AnnounceDraw)
			draws.POST("/:id/activate", deps.DrawHandler.ActivateDraw)
			draws.POST("/:id/cancel", deps.DrawHandler.CancelDraw)
			draws.POST("/:id/execute", deps.DrawHandler.ExecuteDraw)
			draws.POST("/:id/expire-redraw", deps.DrawHandler.ExpireAndRedraw)
		}

		winners := admin.Group("/winners")
		{
			winners.PATCH("/:id/payout", deps.ClaimHandler.UpdatePayout)
		}
	}

	return router
}
