package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MigraSafe/migrasafe-backend/api/routes"
	"github.com/MigraSafe/migrasafe-backend/internal/config"
	"github.com/MigraSafe/migrasafe-backend/internal/handlers"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	mongorepo "github.com/MigraSafe/migrasafe-backend/internal/repositories/mongodb"
	"github.com/MigraSafe/migrasafe-backend/internal/scheduler"
	"github.com/MigraSafe/migrasafe-backend/internal/services"
	"github.com/MigraSafe/migrasafe-backend/internal/utils"
	"github.com/MigraSafe/migrasafe-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional, environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var drawRepo repositories.DrawRepository = mongorepo.NewDrawRepository(db)
	var prizeRepo repositories.PrizeRepository = mongorepo.NewPrizeRepository(db)
	var entryRepo repositories.EntryRepository = mongorepo.NewEntryRepository(db)
	var winnerRepo repositories.WinnerRepository = mongorepo.NewWinnerRepository(db)
	var memberRepo repositories.MemberRepository = mongorepo.NewMemberRepository(db)
	var membershipRepo repositories.MembershipRepository = mongorepo.NewMembershipRepository(db)
	var notificationRepo repositories.NotificationRepository = mongorepo.NewNotificationRepository(db)
	var auditRepo repositories.AuditRepository = mongorepo.NewAuditRepository(db)
	var reportRepo repositories.ReportRepository = mongorepo.NewReportRepository(db)
	var adminUserRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// Services
	callTimeout := time.Duration(cfg.Draw.ExternalCallTimeoutSeconds) * time.Second
	eligibilityService := services.NewEligibilityService(entryRepo, membershipRepo, memberRepo)
	selectionService := services.NewSelectionService(eligibilityService, winnerRepo)
	winnerService := services.NewWinnerService(winnerRepo, memberRepo, auditRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	reportService := services.NewReportService(reportRepo)
	executionService := services.NewExecutionService(
		drawRepo, prizeRepo, entryRepo,
		eligibilityService, selectionService, winnerService,
		reportService, notificationService, auditRepo,
		mongoClient, callTimeout,
	)
	expiryService := services.NewExpiryService(
		drawRepo, prizeRepo, winnerRepo,
		selectionService, winnerService, auditRepo, mongoClient,
	)
	drawService := services.NewDrawService(drawRepo, prizeRepo, entryRepo, membershipRepo, auditRepo)
	authService := services.NewAuthService(adminUserRepo, cfg, utils.GenerateJWT)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:  handlers.NewAuthHandler(authService),
		DrawHandler:  handlers.NewDrawHandler(drawService, executionService, expiryService, winnerService),
		ClaimHandler: handlers.NewClaimHandler(winnerService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	sched, err := scheduler.New(cfg, executionService, expiryService)
	if err != nil {
		slog.Error("Failed to build scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shut down", "error", err)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}
