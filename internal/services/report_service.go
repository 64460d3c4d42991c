package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"etugal/internal/models"
	"etugal/internal/repositories"
)

// ReportService files moderation cases and applies their resolutions to the
// trust state. It never touches trust fields directly.
type ReportService interface {
	FileReport(ctx context.Context, report *models.UserReport, images []string) (*models.UserReport, error)
	ListPending(ctx context.Context) ([]models.UserReport, error)
	Resolve(ctx context.Context, reportID int64, action models.ReportAction, notes string) (*models.UserReport, error)
}

type reportService struct {
	repo  repositories.ReportRepository
	users repositories.UserRepository
	trust TrustService
}

func NewReportService(repo repositories.ReportRepository, users repositories.UserRepository, trust TrustService) ReportService {
	return &reportService{repo: repo, users: users, trust: trust}
}

func (s *reportService) FileReport(ctx context.Context, report *models.UserReport, images []string) (*models.UserReport, error) {
	if report.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	report.Status = models.ReportPending
	report.ActionTaken = models.ActionNone
	if err := s.repo.Store(ctx, report); err != nil {
		return nil, err
	}
	for _, img := range images {
		if err := s.repo.AddImage(ctx, &models.ReportImage{ReportID: report.ID, Image: img}); err != nil {
			log.Printf("[report][image][warn] report=%d: %v", report.ID, err)
		}
	}
	log.Printf("[report][file][ok] id=%d reported_user=%d", report.ID, report.ReportedUserID)
	return report, nil
}

func (s *reportService) ListPending(ctx context.Context) ([]models.UserReport, error) {
	return s.repo.ListPending(ctx)
}

// Resolve stamps the report and carries out the chosen action against the
// reported user's profile.
func (s *reportService) Resolve(ctx context.Context, reportID int64, action models.ReportAction, notes string) (*models.UserReport, error) {
	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("report %d not found", reportID)
	}

	profile, err := s.users.FindProfileByUserID(ctx, report.ReportedUserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("reported user %d has no profile", report.ReportedUserID)
	}

	switch action {
	case models.ActionSuspend:
		durationKey := ""
		if report.SuspensionDuration != nil {
			durationKey = *report.SuspensionDuration
		}
		if err := s.trust.Suspend(ctx, profile.ID, report.Reason, durationKey); err != nil {
			return nil, err
		}
	case models.ActionTerminate:
		if err := s.trust.Terminate(ctx, profile.ID, report.Reason); err != nil {
			return nil, err
		}
	case models.ActionNone:
		// resolved without sanctions
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}

	now := time.Now()
	report.Status = models.ReportResolved
	report.ActionTaken = action
	report.ResolutionNotes = &notes
	report.ResolvedAt = &now
	if err := s.repo.UpdateResolution(ctx, report); err != nil {
		return nil, err
	}
	log.Printf("[report][resolve][ok] id=%d action=%q", reportID, action)
	return report, nil
}
