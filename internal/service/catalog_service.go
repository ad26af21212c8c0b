package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/repository"
)

// catalogService implements CatalogService.
type catalogService struct {
	dishRepo repository.DishRepository
	logger   zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(dishRepo repository.DishRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		dishRepo: dishRepo,
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.dishRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) Dishes(ctx context.Context, categoryID uuid.UUID, availableOnly bool) ([]model.Dish, error) {
	dishes, err := s.dishRepo.ListByCategory(ctx, categoryID, availableOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	return dishes, nil
}

func (s *catalogService) Dish(ctx context.Context, id uuid.UUID) (*model.Dish, error) {
	dish, err := s.dishRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get dish: %w", err)
	}
	return dish, nil
}
