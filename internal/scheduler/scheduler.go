package scheduler

import (
	"context"

	"github.com/MigraSafe/migrasafe-backend/internal/config"
	"github.com/MigraSafe/migrasafe-backend/internal/services"
	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"
)

// Scheduler runs the periodic draw execution and expiry sweeps
type Scheduler struct {
	cron      *cron.Cron
	execution services.ExecutionService
	expiry    services.ExpiryService
}

// New creates a Scheduler with both jobs registered per the configured cron
// expressions
func New(cfg *config.Config, execution services.ExecutionService, expiry services.ExpiryService) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		execution: execution,
		expiry:    expiry,
	}

	if _, err := s.cron.AddFunc(cfg.Draw.ExecuteSchedule, s.runDueDraws); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cfg.Draw.ExpirySchedule, s.runExpiryCycle); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the cron loop in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started")
}

// Stop stops the cron loop and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) runDueDraws() {
	executed, err := s.execution.RunDueDraws(context.Background())
	if err != nil {
		slog.Error("Due-draw sweep failed", "error", err)
		return
	}
	if executed > 0 {
		slog.Info("Due-draw sweep finished", "executed", executed)
	}
}

func (s *Scheduler) runExpiryCycle() {
	if _, err := s.expiry.RunExpiryCycle(context.Background()); err != nil {
		slog.Error("Expiry sweep failed", "error", err)
	}
}
