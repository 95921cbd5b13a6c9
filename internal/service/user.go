package service

import (
	"context"
	"fmt"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// UserService covers profiles, subscriptions, and the signed-in user's
// personal page.
type UserService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(st *store.Store, log *logger.Logger) *UserService {
	return &UserService{
		store:  st,
		logger: log,
	}
}

// Profile is the public view of a user.
type Profile struct {
	domain.AuthorSummary
	ArticleCount int  `json:"article_count"`
	Subscribed   bool `json:"subscribed"` // viewer follows this user
}

// GetProfile returns the public profile of a user. ViewerID may be empty.
func (s *UserService) GetProfile(ctx context.Context, viewerID, userID string) (*Profile, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	p := &Profile{
		AuthorSummary: user.Summary(),
		ArticleCount:  user.ArticleCount,
	}
	if viewerID != "" && viewerID != userID {
		viewer, err := s.store.Users.Get(ctx, viewerID)
		if err == nil {
			p.Subscribed = viewer.IsSubscribedTo(userID)
		}
	}
	return p, nil
}

// MyPage is the signed-in user's personal dashboard.
type MyPage struct {
	User       *domain.User       `json:"user"`
	Categories []*domain.Category `json:"categories"`
	StampDates []string           `json:"stamp_dates"`
}

// GetMyPage assembles the signed-in user's own page.
func (s *UserService) GetMyPage(ctx context.Context, userID string) (*MyPage, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	cats, err := s.store.CategoriesOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	stamps := user.StampDates
	if stamps == nil {
		stamps = []string{}
	}

	return &MyPage{
		User:       user,
		Categories: cats,
		StampDates: stamps,
	}, nil
}

// MyArticles returns a page of the user's own articles, drafts included.
func (s *UserService) MyArticles(ctx context.Context, userID, cursor, categoryID string) (*store.FeedPage, error) {
	return s.store.Feed(ctx, store.FeedQuery{
		Order:         store.OrderLatest,
		Cursor:        cursor,
		AuthorIDs:     []string{userID},
		CategoryID:    categoryID,
		IncludeHidden: true,
	})
}

// Articles returns a page of another user's public articles.
func (s *UserService) Articles(ctx context.Context, userID, cursor string) (*store.FeedPage, error) {
	if _, err := s.store.Users.Get(ctx, userID); err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return s.store.Feed(ctx, store.FeedQuery{
		Order:     store.OrderLatest,
		Cursor:    cursor,
		AuthorIDs: []string{userID},
	})
}

// Scraps returns the user's scrapped articles, optionally by category.
func (s *UserService) Scraps(ctx context.Context, userID, categoryID string) ([]domain.FeedItem, error) {
	return s.store.ScrappedArticles(ctx, userID, categoryID)
}

// Subscribe makes subscriberID follow targetID.
func (s *UserService) Subscribe(ctx context.Context, subscriberID, targetID string) error {
	err := s.store.Subscribe(ctx, subscriberID, targetID)
	if apperrors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("user not found")
	}
	return err
}

// Unsubscribe removes a subscription.
func (s *UserService) Unsubscribe(ctx context.Context, subscriberID, targetID string) error {
	return s.store.Unsubscribe(ctx, subscriberID, targetID)
}

// Subscriptions lists the users the subscriber follows.
func (s *UserService) Subscriptions(ctx context.Context, subscriberID string) ([]domain.AuthorSummary, error) {
	user, err := s.store.Users.Get(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	out := make([]domain.AuthorSummary, 0, len(user.Subscribed))
	for _, targetID := range user.Subscribed {
		target, err := s.store.Users.Get(ctx, targetID)
		if err != nil {
			if apperrors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, target.Summary())
	}
	return out, nil
}
