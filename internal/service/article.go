package service

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/store"
	"github.com/inkwell-app/inkwell-server/internal/util"
	"github.com/inkwell-app/inkwell-server/internal/validation"
)

// ArticleService handles article lifecycle and the social interactions
// hanging off articles.
type ArticleService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *logger.Logger
}

// NewArticleService creates a new article service.
func NewArticleService(st *store.Store, v *validation.Validator, log *logger.Logger) *ArticleService {
	return &ArticleService{
		store:     st,
		validator: v,
		logger:    log,
	}
}

// CreateArticleRequest contains new article data. Kind-specific fields are
// resolved by the service: challenge articles bind to the day's prompt,
// relay articles to a room the author has joined.
type CreateArticleRequest struct {
	Kind       domain.ArticleKind `json:"kind" validate:"required,oneof=free challenge relay"`
	Title      string             `json:"title" validate:"required,max=200"`
	Body       string             `json:"body" validate:"required,max=50000"`
	Tags       []string           `json:"tags" validate:"max=10"`
	CategoryID string             `json:"category_id"`
	RelayID    string             `json:"relay_id"`
	Public     bool               `json:"public"`
	Draft      bool               `json:"draft"`
}

// UpdateArticleRequest contains editable article fields. Kind and relay
// binding are immutable after creation.
type UpdateArticleRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Body       string   `json:"body" validate:"required,max=50000"`
	Tags       []string `json:"tags" validate:"max=10"`
	CategoryID string   `json:"category_id"`
	Public     bool     `json:"public"`
	Draft      bool     `json:"draft"`
}

// Create writes a new article for the author.
func (s *ArticleService) Create(ctx context.Context, authorID string, req CreateArticleRequest) (*domain.Article, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	state := domain.StateSubmitted
	if req.Draft {
		state = domain.StateDraft
	}

	now := time.Now()
	articleID, err := id.GenerateSortable("article")
	if err != nil {
		return nil, fmt.Errorf("generate article ID: %w", err)
	}

	a := &domain.Article{
		ID:         articleID,
		AuthorID:   authorID,
		Kind:       req.Kind,
		State:      state,
		Title:      req.Title,
		Body:       req.Body,
		Tags:       util.NormalizeTags(req.Tags),
		CategoryID: req.CategoryID,
		Public:     req.Public,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	switch req.Kind {
	case domain.KindChallenge:
		day := s.store.Today()
		prompt, err := s.store.PromptForDay(ctx, day)
		if err != nil {
			if apperrors.Is(err, store.ErrNotFound) {
				return nil, apperrors.NotFound("no challenge prompt active today")
			}
			return nil, fmt.Errorf("lookup prompt: %w", err)
		}
		a.PromptID = prompt.ID
		a.PromptDay = day

	case domain.KindRelay:
		if req.RelayID == "" {
			return nil, apperrors.Validation("relay articles require a relay_id")
		}
		relay, err := s.store.Relays.Get(ctx, req.RelayID)
		if err != nil {
			if apperrors.Is(err, store.ErrNotFound) {
				return nil, apperrors.NotFound("relay not found")
			}
			return nil, fmt.Errorf("lookup relay: %w", err)
		}
		if !relay.IsMember(authorID) {
			return nil, apperrors.Forbidden("join the relay before writing in it")
		}
		a.RelayID = relay.ID

	default:
		if req.RelayID != "" {
			return nil, apperrors.Validation("relay_id is only valid for relay articles")
		}
	}

	if err := s.checkCategoryOwnership(ctx, authorID, req.CategoryID); err != nil {
		return nil, err
	}

	if err := s.store.CreateArticle(ctx, a); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.logger.Info("article created", "article_id", a.ID, "author_id", authorID, "kind", a.Kind)
	return a, nil
}

// Get returns an article. Drafts and private articles are visible only to
// their author; to everyone else they don't exist.
func (s *ArticleService) Get(ctx context.Context, viewerID, articleID string) (*domain.Article, error) {
	a, err := s.store.Articles.Get(ctx, articleID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("article not found")
		}
		return nil, err
	}
	if !a.Visible() && a.AuthorID != viewerID {
		return nil, apperrors.NotFound("article not found")
	}
	return a, nil
}

// Update edits an article. Only the author may edit; kind and relay binding
// never change.
func (s *ArticleService) Update(ctx context.Context, actorID, articleID string, req UpdateArticleRequest) (*domain.Article, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	a, err := s.store.Articles.Get(ctx, articleID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("article not found")
		}
		return nil, err
	}
	if a.AuthorID != actorID {
		return nil, apperrors.Forbidden("only the author can edit an article")
	}

	if req.CategoryID != a.CategoryID {
		if err := s.checkCategoryOwnership(ctx, actorID, req.CategoryID); err != nil {
			return nil, err
		}
	}

	a.Title = req.Title
	a.Body = req.Body
	a.Tags = util.NormalizeTags(req.Tags)
	a.CategoryID = req.CategoryID
	a.Public = req.Public
	if req.Draft {
		a.State = domain.StateDraft
	} else {
		a.State = domain.StateSubmitted
	}
	a.UpdatedAt = time.Now()

	if err := s.store.UpdateArticle(ctx, a); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return a, nil
}

// Delete removes an article. Only the author may delete.
func (s *ArticleService) Delete(ctx context.Context, actorID, articleID string) error {
	a, err := s.store.Articles.Get(ctx, articleID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("article not found")
		}
		return err
	}
	if a.AuthorID != actorID {
		return apperrors.Forbidden("only the author can delete an article")
	}

	if err := s.store.DeleteArticle(ctx, articleID); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	s.logger.Info("article deleted", "article_id", articleID, "author_id", actorID)
	return nil
}

// CommentRequest contains a new comment body.
type CommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// AddComment attaches a comment to a visible article.
func (s *ArticleService) AddComment(ctx context.Context, authorID, articleID string, req CommentRequest) (*domain.Comment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, authorID, articleID); err != nil {
		return nil, err
	}

	commentID, err := id.GenerateSortable("comment")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	c := &domain.Comment{
		ID:        commentID,
		ArticleID: articleID,
		AuthorID:  authorID,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddComment(ctx, c); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return c, nil
}

// DeleteComment removes a comment. Allowed for the comment author and for
// the article author moderating their own page.
func (s *ArticleService) DeleteComment(ctx context.Context, actorID, articleID, commentID string) error {
	c, err := s.store.GetComment(ctx, articleID, commentID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("comment not found")
		}
		return err
	}

	if c.AuthorID != actorID {
		a, err := s.store.Articles.Get(ctx, articleID)
		if err != nil {
			return err
		}
		if a.AuthorID != actorID {
			return apperrors.Forbidden("not allowed to delete this comment")
		}
	}

	return s.store.DeleteComment(ctx, articleID, commentID)
}

// Comments lists an article's comments, oldest first.
func (s *ArticleService) Comments(ctx context.Context, viewerID, articleID string) ([]*domain.Comment, error) {
	if _, err := s.Get(ctx, viewerID, articleID); err != nil {
		return nil, err
	}
	return s.store.Comments(ctx, articleID)
}

// Like records a like on a visible article.
func (s *ArticleService) Like(ctx context.Context, userID, articleID string) error {
	if _, err := s.Get(ctx, userID, articleID); err != nil {
		return err
	}
	return s.store.LikeArticle(ctx, articleID, userID)
}

// Unlike removes a like.
func (s *ArticleService) Unlike(ctx context.Context, userID, articleID string) error {
	return s.store.UnlikeArticle(ctx, articleID, userID)
}

// ScrapRequest optionally files the scrap under one of the user's categories.
type ScrapRequest struct {
	CategoryID string `json:"category_id"`
}

// Scrap bookmarks a visible article for the user.
func (s *ArticleService) Scrap(ctx context.Context, userID, articleID string, req ScrapRequest) error {
	if _, err := s.Get(ctx, userID, articleID); err != nil {
		return err
	}
	if err := s.checkCategoryOwnership(ctx, userID, req.CategoryID); err != nil {
		return err
	}

	sc := &domain.Scrap{
		ArticleID:  articleID,
		UserID:     userID,
		CategoryID: req.CategoryID,
		CreatedAt:  time.Now(),
	}
	return s.store.ScrapArticle(ctx, sc)
}

// Unscrap removes a bookmark.
func (s *ArticleService) Unscrap(ctx context.Context, userID, articleID string) error {
	err := s.store.UnscrapArticle(ctx, articleID, userID)
	if apperrors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("scrap not found")
	}
	return err
}

// checkCategoryOwnership verifies that categoryID, when set, exists and
// belongs to userID.
func (s *ArticleService) checkCategoryOwnership(ctx context.Context, userID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	cat, err := s.store.Categories.Get(ctx, categoryID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("category not found")
		}
		return err
	}
	if cat.OwnerID != userID {
		return apperrors.Forbidden("category belongs to another user")
	}
	return nil
}
