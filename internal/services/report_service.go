package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/models"
	"github.com/MigraSafe/migrasafe-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ReportServiceImpl implements ReportService
var _ ReportService = (*ReportServiceImpl)(nil)

// ReportServiceImpl persists the per-execution draw report
type ReportServiceImpl struct {
	reportRepo repositories.ReportRepository
}

// NewReportService creates a new ReportServiceImpl
func NewReportService(reportRepo repositories.ReportRepository) *ReportServiceImpl {
	return &ReportServiceImpl{reportRepo: reportRepo}
}

// GenerateReport writes the report for one draw execution. Execution treats a
// report failure as a draw failure, so this must succeed before the draw can
// be marked completed.
func (s *ReportServiceImpl) GenerateReport(ctx context.Context, draw *models.PrizeDraw, results []models.PrizeResult, autoExecuted bool) error {
	report := &models.DrawReport{
		DrawID:          draw.ID,
		AutoExecuted:    autoExecuted,
		TotalEntries:    draw.TotalEntries,
		EligibleEntries: draw.EligibleEntries,
		PrizeResults:    results,
		GeneratedAt:     time.Now(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return fmt.Errorf("failed to persist draw report: %w", err)
	}
	slog.Info("Draw report generated", "drawId", draw.ID, "prizes", len(results))
	return nil
}
