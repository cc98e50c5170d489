package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/apierr"
	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/repos"
)

type CategoryService interface {
	ListDegrees(ctx context.Context) ([]CategoryView, error)
	ListFields(ctx context.Context, degreeID uint) ([]CategoryView, error)
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
	return &categoryService{
		db:           db,
		log:          log.With("service", "CategoryService"),
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) ListDegrees(ctx context.Context) ([]CategoryView, error) {
	roots, err := s.categoryRepo.GetRoots(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list degrees: %w", err)
	}
	views := make([]CategoryView, 0, len(roots))
	for _, c := range roots {
		views = append(views, NewCategoryView(c))
	}
	return views, nil
}

func (s *categoryService) ListFields(ctx context.Context, degreeID uint) ([]CategoryView, error) {
	parents, err := s.categoryRepo.GetByIDs(ctx, nil, []uint{degreeID})
	if err != nil {
		return nil, fmt.Errorf("failed to load degree: %w", err)
	}
	if len(parents) == 0 || !parents[0].IsRoot() {
		return nil, apierr.NotFound("degree")
	}

	children, err := s.categoryRepo.GetByParentID(ctx, nil, degreeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	views := make([]CategoryView, 0, len(children))
	for _, c := range children {
		views = append(views, NewCategoryView(c))
	}
	return views, nil
}
