package services

import (
	"context"

	"github.com/ljcourses/backend/internal/app/models"
	"github.com/ljcourses/backend/internal/app/models/dto"
	"github.com/ljcourses/backend/internal/app/repositories"
	"github.com/ljcourses/backend/internal/pkg/apperrors"
	"github.com/ljcourses/backend/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// CategoryService handles catalog categories
type CategoryService struct {
	categoryRepo repositories.ICategoryRepository
	courseRepo   repositories.ICourseRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repositories.ICategoryRepository, courseRepo repositories.ICourseRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		courseRepo:   courseRepo,
		logger:       logger.WithField("service", "category"),
	}
}

// CreateCategory creates a category
func (s *CategoryService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error) {
	if err := validateSlug(req.Slug); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("categoryId", category.ID).Str("slug", category.Slug).Msg("Category created")
	return category, nil
}

// GetCategory returns a category by id
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// ListCategories returns all categories
func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

// UpdateCategory applies a merge-patch to a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Slug != nil {
		if err := validateSlug(*req.Slug); err != nil {
			return nil, err
		}
		category.Slug = *req.Slug
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.Icon != nil {
		category.Icon = req.Icon
	}
	if req.Color != nil {
		category.Color = req.Color
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Deletion is rejected while any course
// still references it.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	count, err := s.courseRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrCategoryHasCourses
	}

	// The FK also rejects a concurrent course creation racing this delete
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("categoryId", id).Msg("Category deleted")
	return nil
}
