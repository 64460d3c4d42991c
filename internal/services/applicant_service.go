package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"etugal/internal/models"
	"etugal/internal/repositories"
)

// ApplicantService manages the applicant pool: one application per
// (task, performer) pair, enforced both by pre-check and by the DB
// constraint so a racing insert still surfaces as a duplicate.
type ApplicantService interface {
	Apply(ctx context.Context, taskID, performerID int64, description *string) (*models.TaskApplicant, error)
	ListApplicants(ctx context.Context, taskID int64) ([]models.TaskApplicant, error)
	ListMyApplications(ctx context.Context, performerID int64, statusFilter *models.TaskStatus) ([]models.TaskApplicant, error)
}

type applicantService struct {
	repo   repositories.ApplicantRepository
	tasks  repositories.TaskRepository
	users  repositories.UserRepository
	trust  TrustService
	notify Notifier
}

func NewApplicantService(repo repositories.ApplicantRepository, tasks repositories.TaskRepository, users repositories.UserRepository, trust TrustService, notify Notifier) ApplicantService {
	return &applicantService{repo: repo, tasks: tasks, users: users, trust: trust, notify: notify}
}

func (s *applicantService) Apply(ctx context.Context, taskID, performerID int64, description *string) (*models.TaskApplicant, error) {
	if err := s.trust.RequireActive(ctx, performerID); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	exists, err := s.repo.Exists(ctx, taskID, performerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateApplication
	}

	applicant := &models.TaskApplicant{
		TaskID:      taskID,
		PerformerID: performerID,
		Description: description,
	}
	if err := s.repo.Store(ctx, applicant); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// lost the race against a concurrent apply
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}
	log.Printf("[applicant][apply][ok] task=%d performer=%d", taskID, performerID)

	if s.notify != nil {
		if provider, err := s.users.FindProfileByID(ctx, task.ProviderID); err == nil && provider != nil {
			body := fmt.Sprintf("A new performer has applied for your task: %s. "+
				"Review their profile and approve if suitable.", task.Title)
			s.notify.Push(provider, "E-Tugal", body, map[string]string{"title": "E-Tugal", "body": body})
		}
	}
	return applicant, nil
}

func (s *applicantService) ListApplicants(ctx context.Context, taskID int64) ([]models.TaskApplicant, error) {
	return s.repo.ListByTask(ctx, taskID)
}

// ListMyApplications filters by the task's status. PENDING means tasks still
// open to anyone (performer slot empty); any other status is restricted to
// tasks assigned to the calling performer so another performer's acceptance
// never leaks through.
func (s *applicantService) ListMyApplications(ctx context.Context, performerID int64, statusFilter *models.TaskStatus) ([]models.TaskApplicant, error) {
	if statusFilter == nil {
		return s.repo.ListByPerformer(ctx, performerID, nil, false)
	}
	unassigned := *statusFilter == models.StatusPending
	return s.repo.ListByPerformer(ctx, performerID, statusFilter, unassigned)
}
