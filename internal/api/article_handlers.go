package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/service"
)

func (s *Server) registerArticleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createArticle",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles",
		Summary:     "Create article",
		Description: "Creates a free, challenge, or relay article as draft or submission",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "getArticle",
		Method:      http.MethodGet,
		Path:        "/api/v1/articles/{id}",
		Summary:     "Get article",
		Description: "Returns an article. Drafts and private articles are only visible to their author.",
		Tags:        []string{"Articles"},
	}, s.handleGetArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateArticle",
		Method:      http.MethodPatch,
		Path:        "/api/v1/articles/{id}",
		Summary:     "Update article",
		Description: "Edits an article. Only the author may edit; kind and relay binding never change.",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteArticle",
		Method:      http.MethodDelete,
		Path:        "/api/v1/articles/{id}",
		Summary:     "Delete article",
		Description: "Deletes an article along with its comments, likes, and scraps",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/articles/{id}/comments",
		Summary:     "List comments",
		Description: "Returns an article's comments, oldest first",
		Tags:        []string{"Comments"},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID: "addComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles/{id}/comments",
		Summary:     "Add comment",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/articles/{id}/comments/{commentID}",
		Summary:     "Delete comment",
		Description: "Deletes a comment. Allowed for the comment author and the article author.",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "likeArticle",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles/{id}/like",
		Summary:     "Like article",
		Tags:        []string{"Likes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLikeArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlikeArticle",
		Method:      http.MethodDelete,
		Path:        "/api/v1/articles/{id}/like",
		Summary:     "Remove like",
		Tags:        []string{"Likes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnlikeArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "scrapArticle",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles/{id}/scrap",
		Summary:     "Scrap article",
		Description: "Bookmarks an article, optionally filing it under one of the user's categories",
		Tags:        []string{"Scraps"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleScrapArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "unscrapArticle",
		Method:      http.MethodDelete,
		Path:        "/api/v1/articles/{id}/scrap",
		Summary:     "Remove scrap",
		Tags:        []string{"Scraps"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnscrapArticle)
}

// === DTOs ===

// CreateArticleRequest is the request body for article creation.
type CreateArticleRequest struct {
	Kind       string   `json:"kind" validate:"required,oneof=free challenge relay" doc:"Article kind: free, challenge, or relay"`
	Title      string   `json:"title" validate:"required,max=200" doc:"Title"`
	Body       string   `json:"body" validate:"required,max=50000" doc:"Body text"`
	Tags       []string `json:"tags,omitempty" validate:"max=10" doc:"Tags"`
	CategoryID string   `json:"category_id,omitempty" doc:"Category to file the article under"`
	RelayID    string   `json:"relay_id,omitempty" doc:"Relay room (relay articles only)"`
	Public     bool     `json:"public" doc:"Whether the article is publicly visible"`
	Draft      bool     `json:"draft" doc:"Save as draft instead of submitting"`
}

// CreateArticleInput wraps article creation for Huma.
type CreateArticleInput struct {
	Body CreateArticleRequest
}

// UpdateArticleRequest is the request body for article edits.
type UpdateArticleRequest struct {
	Title      string   `json:"title" validate:"required,max=200" doc:"Title"`
	Body       string   `json:"body" validate:"required,max=50000" doc:"Body text"`
	Tags       []string `json:"tags,omitempty" validate:"max=10" doc:"Tags"`
	CategoryID string   `json:"category_id,omitempty" doc:"Category to file the article under"`
	Public     bool     `json:"public" doc:"Whether the article is publicly visible"`
	Draft      bool     `json:"draft" doc:"Demote to draft instead of submitting"`
}

// UpdateArticleInput wraps article edits for Huma.
type UpdateArticleInput struct {
	ID   string `path:"id" doc:"Article ID"`
	Body UpdateArticleRequest
}

// ArticleIDInput identifies an article by path parameter.
type ArticleIDInput struct {
	ID string `path:"id" doc:"Article ID"`
}

// ArticleResponse contains article data in API responses.
type ArticleResponse struct {
	ID         string   `json:"id" doc:"Article ID"`
	AuthorID   string   `json:"author_id" doc:"Author user ID"`
	Kind       string   `json:"kind" doc:"Article kind"`
	State      string   `json:"state" doc:"Lifecycle state: draft or submitted"`
	Title      string   `json:"title" doc:"Title"`
	Body       string   `json:"body" doc:"Body text"`
	Tags       []string `json:"tags,omitempty" doc:"Tags"`
	CategoryID string   `json:"category_id,omitempty" doc:"Category ID"`
	Public     bool     `json:"public" doc:"Whether publicly visible"`

	LikeCount    int `json:"like_count" doc:"Number of likes"`
	CommentCount int `json:"comment_count" doc:"Number of comments"`
	ScrapCount   int `json:"scrap_count" doc:"Number of scraps"`

	PromptID  string `json:"prompt_id,omitempty" doc:"Challenge prompt ID"`
	PromptDay string `json:"prompt_day,omitempty" doc:"Challenge prompt day (YYYY-MM-DD)"`
	RelayID   string `json:"relay_id,omitempty" doc:"Relay room ID"`

	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ArticleOutput wraps a single article for Huma.
type ArticleOutput struct {
	Body ArticleResponse
}

// AuthorResponse is the compact author shape embedded in feed items.
type AuthorResponse struct {
	ID            string `json:"id" doc:"User ID"`
	Nickname      string `json:"nickname" doc:"Public nickname"`
	StampCount    int    `json:"stamp_count" doc:"Completed challenge days"`
	FollowerCount int    `json:"follower_count" doc:"Number of followers"`
}

// FeedItemResponse is an article with its author embedded.
type FeedItemResponse struct {
	Article ArticleResponse `json:"article" doc:"The article"`
	Author  AuthorResponse  `json:"author" doc:"Its author"`
}

// CommentResponse contains comment data in API responses.
type CommentResponse struct {
	ID        string    `json:"id" doc:"Comment ID"`
	ArticleID string    `json:"article_id" doc:"Article ID"`
	AuthorID  string    `json:"author_id" doc:"Comment author user ID"`
	Body      string    `json:"body" doc:"Comment body"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// CommentOutput wraps a single comment for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// ListCommentsResponse contains an article's comments.
type ListCommentsResponse struct {
	Comments []CommentResponse `json:"comments" doc:"Comments, oldest first"`
}

// ListCommentsOutput wraps the comment list for Huma.
type ListCommentsOutput struct {
	Body ListCommentsResponse
}

// CommentInput wraps a new comment for Huma.
type CommentInput struct {
	ID   string `path:"id" doc:"Article ID"`
	Body struct {
		Body string `json:"body" validate:"required,max=2000" doc:"Comment body"`
	}
}

// CommentIDInput identifies a comment on an article.
type CommentIDInput struct {
	ID        string `path:"id" doc:"Article ID"`
	CommentID string `path:"commentID" doc:"Comment ID"`
}

// ScrapInput wraps a scrap request for Huma.
type ScrapInput struct {
	ID   string `path:"id" doc:"Article ID"`
	Body struct {
		CategoryID string `json:"category_id,omitempty" doc:"Category to file the scrap under"`
	}
}

// === Handlers ===

func (s *Server) handleCreateArticle(ctx context.Context, input *CreateArticleInput) (*ArticleOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.services.Article.Create(ctx, userID, service.CreateArticleRequest{
		Kind:       domain.ArticleKind(input.Body.Kind),
		Title:      input.Body.Title,
		Body:       input.Body.Body,
		Tags:       input.Body.Tags,
		CategoryID: input.Body.CategoryID,
		RelayID:    input.Body.RelayID,
		Public:     input.Body.Public,
		Draft:      input.Body.Draft,
	})
	if err != nil {
		return nil, err
	}

	return &ArticleOutput{Body: mapArticle(a)}, nil
}

func (s *Server) handleGetArticle(ctx context.Context, input *ArticleIDInput) (*ArticleOutput, error) {
	a, err := s.services.Article.Get(ctx, OptionalUserID(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	return &ArticleOutput{Body: mapArticle(a)}, nil
}

func (s *Server) handleUpdateArticle(ctx context.Context, input *UpdateArticleInput) (*ArticleOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.services.Article.Update(ctx, userID, input.ID, service.UpdateArticleRequest{
		Title:      input.Body.Title,
		Body:       input.Body.Body,
		Tags:       input.Body.Tags,
		CategoryID: input.Body.CategoryID,
		Public:     input.Body.Public,
		Draft:      input.Body.Draft,
	})
	if err != nil {
		return nil, err
	}

	return &ArticleOutput{Body: mapArticle(a)}, nil
}

func (s *Server) handleDeleteArticle(ctx context.Context, input *ArticleIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Article.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Article deleted"}}, nil
}

func (s *Server) handleListComments(ctx context.Context, input *ArticleIDInput) (*ListCommentsOutput, error) {
	comments, err := s.services.Article.Comments(ctx, OptionalUserID(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, mapComment(c))
	}

	return &ListCommentsOutput{Body: ListCommentsResponse{Comments: out}}, nil
}

func (s *Server) handleAddComment(ctx context.Context, input *CommentInput) (*CommentOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Article.AddComment(ctx, userID, input.ID, service.CommentRequest{
		Body: input.Body.Body,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: mapComment(c)}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Article.DeleteComment(ctx, userID, input.ID, input.CommentID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Comment deleted"}}, nil
}

func (s *Server) handleLikeArticle(ctx context.Context, input *ArticleIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Article.Like(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Liked"}}, nil
}

func (s *Server) handleUnlikeArticle(ctx context.Context, input *ArticleIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Article.Unlike(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Like removed"}}, nil
}

func (s *Server) handleScrapArticle(ctx context.Context, input *ScrapInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Article.Scrap(ctx, userID, input.ID, service.ScrapRequest{
		CategoryID: input.Body.CategoryID,
	}); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Scrapped"}}, nil
}

func (s *Server) handleUnscrapArticle(ctx context.Context, input *ArticleIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Article.Unscrap(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Scrap removed"}}, nil
}

// === Helpers ===

func mapArticle(a *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:           a.ID,
		AuthorID:     a.AuthorID,
		Kind:         string(a.Kind),
		State:        string(a.State),
		Title:        a.Title,
		Body:         a.Body,
		Tags:         a.Tags,
		CategoryID:   a.CategoryID,
		Public:       a.Public,
		LikeCount:    a.LikeCount,
		CommentCount: a.CommentCount,
		ScrapCount:   a.ScrapCount,
		PromptID:     a.PromptID,
		PromptDay:    a.PromptDay,
		RelayID:      a.RelayID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func mapAuthor(a domain.AuthorSummary) AuthorResponse {
	return AuthorResponse{
		ID:            a.ID,
		Nickname:      a.Nickname,
		StampCount:    a.StampCount,
		FollowerCount: a.FollowerCount,
	}
}

func mapFeedItems(items []domain.FeedItem) []FeedItemResponse {
	out := make([]FeedItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, FeedItemResponse{
			Article: mapArticle(it.Article),
			Author:  mapAuthor(it.Author),
		})
	}
	return out
}

func mapComment(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		ArticleID: c.ArticleID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
