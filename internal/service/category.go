package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/store"
	"github.com/inkwell-app/inkwell-server/internal/validation"
)

// CategoryService manages a user's article/scrap categories.
type CategoryService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *logger.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(st *store.Store, v *validation.Validator, log *logger.Logger) *CategoryService {
	return &CategoryService{
		store:     st,
		validator: v,
		logger:    log,
	}
}

// CategoryRequest contains a category title.
type CategoryRequest struct {
	Title string `json:"title" validate:"required,min=1,max=50"`
}

// Create adds a category for the owner. Titles are unique per owner.
func (s *CategoryService) Create(ctx context.Context, ownerID string, req CategoryRequest) (*domain.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	categoryID, err := id.Generate("cat")
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	now := time.Now()
	cat := &domain.Category{
		ID:        categoryID,
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", categoryID, "owner_id", ownerID)
	return cat, nil
}

// List returns the owner's categories in display order.
func (s *CategoryService) List(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	return s.store.CategoriesOf(ctx, ownerID)
}

// Rename changes a category title. Only the owner may rename.
func (s *CategoryService) Rename(ctx context.Context, actorID, categoryID string, req CategoryRequest) (*domain.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.requireOwnership(ctx, actorID, categoryID); err != nil {
		return nil, err
	}
	return s.store.RenameCategory(ctx, categoryID, strings.TrimSpace(req.Title))
}

// Delete removes a category. Articles and scraps filed under it survive
// with the reference nulled.
func (s *CategoryService) Delete(ctx context.Context, actorID, categoryID string) error {
	if err := s.requireOwnership(ctx, actorID, categoryID); err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}

	s.logger.Info("category deleted", "category_id", categoryID, "owner_id", actorID)
	return nil
}

func (s *CategoryService) requireOwnership(ctx context.Context, actorID, categoryID string) error {
	cat, err := s.store.Categories.Get(ctx, categoryID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("category not found")
		}
		return err
	}
	if cat.OwnerID != actorID {
		return apperrors.Forbidden("category belongs to another user")
	}
	return nil
}
