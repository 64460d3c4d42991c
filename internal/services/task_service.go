package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"etugal/internal/models"
	"etugal/internal/repositories"
)

// TaskService owns the task lifecycle: PENDING tasks have no performer;
// assigning one moves the task to IN_PROGRESS; COMPLETED is reachable only
// after the performer flags the work done.
type TaskService interface {
	Create(ctx context.Context, providerID int64, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListOpen(ctx context.Context, callerProfileID int64, categoryID *int64, titleSearch string) ([]models.Task, error)
	ListByProvider(ctx context.Context, providerID int64, status *models.TaskStatus) ([]models.Task, error)
	ListByPerformer(ctx context.Context, performerID int64, status *models.TaskStatus) ([]models.Task, error)
	AssignPerformer(ctx context.Context, taskID, performerID int64) (*models.Task, error)
	PatchStatus(ctx context.Context, taskID int64, to models.TaskStatus) (*models.Task, error)
	MarkDonePerform(ctx context.Context, taskID, performerID int64, done bool) (*models.Task, error)
	PatchFields(ctx context.Context, taskID int64, update *TaskUpdate) (*models.Task, error)
}

// TaskUpdate carries the client-editable fields; nil means "leave as is".
// RejectionReason is deliberately absent: it is moderation-controlled.
type TaskUpdate struct {
	Title        *string
	Description  *string
	CategoryID   *int64
	WorkType     *models.WorkType
	Reward       *float64
	Address      *string
	Longitude    *float64
	Latitude     *float64
	DoneDate     *time.Time
	ScheduleTime *string
}

type taskService struct {
	repo   repositories.TaskRepository
	users  repositories.UserRepository
	trust  TrustService
	notify Notifier
}

func NewTaskService(repo repositories.TaskRepository, users repositories.UserRepository, trust TrustService, notify Notifier) TaskService {
	return &taskService{repo: repo, users: users, trust: trust, notify: notify}
}

func (s *taskService) Create(ctx context.Context, providerID int64, task *models.Task) (*models.Task, error) {
	if err := s.trust.RequireActive(ctx, providerID); err != nil {
		return nil, err
	}
	task.ProviderID = providerID
	task.PerformerID = nil
	task.Status = models.StatusPending
	task.IsDonePerform = false
	if task.WorkType == "" {
		task.WorkType = models.WorkOnline
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	log.Printf("[task][create][ok] id=%d provider=%d", task.ID, providerID)
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// ListOpen is the discovery feed: unassigned PENDING tasks posted by someone
// else.
func (s *taskService) ListOpen(ctx context.Context, callerProfileID int64, categoryID *int64, titleSearch string) ([]models.Task, error) {
	pending := models.StatusPending
	return s.repo.FindAll(ctx, models.TaskFilter{
		Unassigned:      true,
		Status:          &pending,
		ExcludeProvider: &callerProfileID,
		CategoryID:      categoryID,
		TitleSearch:     titleSearch,
	})
}

func (s *taskService) ListByProvider(ctx context.Context, providerID int64, status *models.TaskStatus) ([]models.Task, error) {
	return s.repo.FindAll(ctx, models.TaskFilter{ProviderID: &providerID, Status: status})
}

func (s *taskService) ListByPerformer(ctx context.Context, performerID int64, status *models.TaskStatus) ([]models.Task, error) {
	return s.repo.FindAll(ctx, models.TaskFilter{PerformerID: &performerID, Status: status})
}

func (s *taskService) AssignPerformer(ctx context.Context, taskID, performerID int64) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	performer, err := s.users.FindProfileByID(ctx, performerID)
	if err != nil {
		return nil, err
	}
	if performer == nil {
		return nil, ErrPerformerNotFound
	}

	if err := s.repo.UpdatePerformer(ctx, taskID, performerID, models.StatusInProgress); err != nil {
		return nil, err
	}
	log.Printf("[task][assign][ok] id=%d performer=%d", taskID, performerID)

	if s.notify != nil {
		body := fmt.Sprintf("Congratulations! Your application for the task %s has been approved. "+
			"You can now communicate with the Task Provider to finalize the details.", task.Title)
		s.notify.Push(performer, "E-Tugal", body, map[string]string{"title": "E-Tugal", "body": body})
	}
	return s.repo.FindByID(ctx, taskID)
}

func (s *taskService) PatchStatus(ctx context.Context, taskID int64, to models.TaskStatus) (*models.Task, error) {
	if !models.IsValidTaskStatus(to) {
		return nil, invalidStatusError(to)
	}
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if to == models.StatusCompleted && !task.IsDonePerform {
		return nil, ErrTaskNotDone
	}

	if err := s.repo.UpdateStatus(ctx, taskID, to); err != nil {
		return nil, err
	}
	log.Printf("[task][status][ok] id=%d to=%q", taskID, to)
	return s.repo.FindByID(ctx, taskID)
}

func (s *taskService) MarkDonePerform(ctx context.Context, taskID, performerID int64, done bool) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.PerformerID == nil {
		return nil, ErrNoPerformerAssigned
	}
	if *task.PerformerID != performerID {
		return nil, fmt.Errorf("%w: only the assigned performer may mark the task done", ErrValidation)
	}
	wasDone := task.IsDonePerform

	if err := s.repo.UpdateDonePerform(ctx, taskID, done); err != nil {
		return nil, err
	}
	log.Printf("[task][done][ok] id=%d done=%v", taskID, done)

	if done && !wasDone && s.notify != nil {
		if provider, err := s.users.FindProfileByID(ctx, task.ProviderID); err == nil && provider != nil {
			body := fmt.Sprintf("The performer has marked the task %s as done. "+
				"Please review the work and complete the task.", task.Title)
			s.notify.Push(provider, "E-Tugal", body, map[string]string{"title": "E-Tugal", "body": body})
		}
	}
	return s.repo.FindByID(ctx, taskID)
}

func (s *taskService) PatchFields(ctx context.Context, taskID int64, update *TaskUpdate) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.CategoryID != nil {
		task.CategoryID = *update.CategoryID
	}
	if update.WorkType != nil {
		task.WorkType = *update.WorkType
	}
	if update.Reward != nil {
		task.Reward = *update.Reward
	}
	if update.Address != nil {
		task.Address = *update.Address
	}
	if update.Longitude != nil {
		task.Longitude = *update.Longitude
	}
	if update.Latitude != nil {
		task.Latitude = *update.Latitude
	}
	if update.DoneDate != nil {
		task.DoneDate = update.DoneDate
	}
	if update.ScheduleTime != nil {
		task.ScheduleTime = update.ScheduleTime
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, taskID)
}
