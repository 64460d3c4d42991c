package services

import (
	"context"

	"etugal/internal/models"
	"etugal/internal/repositories"
)

type CategoryService interface {
	List(ctx context.Context, titleSearch string) ([]models.TaskCategory, error)
	GetByID(ctx context.Context, id int64) (*models.TaskCategory, error)
}

type categoryService struct {
	repo repositories.CategoryRepository
}

func NewCategoryService(repo repositories.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, titleSearch string) ([]models.TaskCategory, error) {
	return s.repo.List(ctx, titleSearch)
}

func (s *categoryService) GetByID(ctx context.Context, id int64) (*models.TaskCategory, error) {
	return s.repo.FindByID(ctx, id)
}
