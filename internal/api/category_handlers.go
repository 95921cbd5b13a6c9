package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/categories",
		Summary:     "Create category",
		Description: "Creates a category for the signed-in user. Titles are unique per user.",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns the signed-in user's categories in display order",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameCategory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Rename category",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Delete category",
		Description: "Deletes a category. Articles and scraps filed under it survive with the reference cleared.",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCategory)
}

// === DTOs ===

// CategoryRequest is the request body for category creation and rename.
type CategoryRequest struct {
	Title string `json:"title" validate:"required,min=1,max=50" doc:"Category title, unique per user"`
}

// CategoryInput wraps a new category for Huma.
type CategoryInput struct {
	Body CategoryRequest
}

// CategoryIDInput identifies a category by path parameter.
type CategoryIDInput struct {
	ID string `path:"id" doc:"Category ID"`
}

// RenameCategoryInput wraps a category rename for Huma.
type RenameCategoryInput struct {
	ID   string `path:"id" doc:"Category ID"`
	Body CategoryRequest
}

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	ID           string    `json:"id" doc:"Category ID"`
	Title        string    `json:"title" doc:"Category title"`
	ArticleCount int       `json:"article_count" doc:"Public articles filed under the category"`
	ScrapCount   int       `json:"scrap_count" doc:"Scraps filed under the category"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// CategoryOutput wraps a single category for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// ListCategoriesResponse contains a user's categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"Categories in display order"`
}

// ListCategoriesOutput wraps the category list for Huma.
type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// === Handlers ===

func (s *Server) handleCreateCategory(ctx context.Context, input *CategoryInput) (*CategoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := s.services.Category.Create(ctx, userID, service.CategoryRequest{Title: input.Body.Title})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: mapCategory(cat)}, nil
}

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	cats, err := s.services.Category.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: mapCategories(cats)}}, nil
}

func (s *Server) handleRenameCategory(ctx context.Context, input *RenameCategoryInput) (*CategoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := s.services.Category.Rename(ctx, userID, input.ID, service.CategoryRequest{Title: input.Body.Title})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: mapCategory(cat)}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *CategoryIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Category.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Category deleted"}}, nil
}

// === Helpers ===

func mapCategory(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Title:        c.Title,
		ArticleCount: c.ArticleCount,
		ScrapCount:   c.ScrapCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func mapCategories(cats []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, mapCategory(c))
	}
	return out
}
