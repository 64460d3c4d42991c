package services

import (
	"context"
	"fmt"
	"log"

	"etugal/internal/models"
	"etugal/internal/repositories"
)

// ReviewService keeps a single review row per task holding both parties'
// ratings. CreateOrUpdate is an idempotent upsert: only the supplied fields
// change, and repeated calls never create a second row.
type ReviewService interface {
	CreateOrUpdate(ctx context.Context, taskID int64, input *models.TaskReviewInput) (*models.TaskReview, error)
	Retrieve(ctx context.Context, taskID int64) (*models.TaskReview, error)
	ListForPerformer(ctx context.Context, performerID int64) ([]models.TaskReview, error)
	ListForProvider(ctx context.Context, providerID int64) ([]models.TaskReview, error)
}

type reviewService struct {
	repo  repositories.ReviewRepository
	tasks repositories.TaskRepository
}

func NewReviewService(repo repositories.ReviewRepository, tasks repositories.TaskRepository) ReviewService {
	return &reviewService{repo: repo, tasks: tasks}
}

func validRate(r *int) error {
	if r != nil && (*r < 0 || *r > 5) {
		return fmt.Errorf("%w: rate must be between 0 and 5", ErrValidation)
	}
	return nil
}

func (s *reviewService) CreateOrUpdate(ctx context.Context, taskID int64, input *models.TaskReviewInput) (*models.TaskReview, error) {
	if err := validRate(input.ProviderRate); err != nil {
		return nil, err
	}
	if err := validRate(input.PerformerRate); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	review, err := s.repo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		review = &models.TaskReview{TaskID: taskID}
		applyReviewInput(review, input)
		if err := s.repo.Store(ctx, review); err != nil {
			return nil, err
		}
		log.Printf("[review][create][ok] task=%d", taskID)
		return review, nil
	}

	applyReviewInput(review, input)
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}
	log.Printf("[review][update][ok] task=%d", taskID)
	return review, nil
}

func applyReviewInput(review *models.TaskReview, input *models.TaskReviewInput) {
	if input.ProviderRate != nil {
		review.ProviderRate = *input.ProviderRate
	}
	if input.ProviderFeedback != nil {
		review.ProviderFeedback = input.ProviderFeedback
	}
	if input.PerformerRate != nil {
		review.PerformerRate = *input.PerformerRate
	}
	if input.PerformerFeedback != nil {
		review.PerformerFeedback = input.PerformerFeedback
	}
}

func (s *reviewService) Retrieve(ctx context.Context, taskID int64) (*models.TaskReview, error) {
	review, err := s.repo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (s *reviewService) ListForPerformer(ctx context.Context, performerID int64) ([]models.TaskReview, error) {
	return s.repo.ListForPerformer(ctx, performerID)
}

func (s *reviewService) ListForProvider(ctx context.Context, providerID int64) ([]models.TaskReview, error) {
	return s.repo.ListForProvider(ctx, providerID)
}
