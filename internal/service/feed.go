package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/search"
	"github.com/inkwell-app/inkwell-server/internal/store"
	"github.com/inkwell-app/inkwell-server/internal/util"
)

// FeedService assembles the public feed: ordering, filters, full-text
// search, and per-user search history.
type FeedService struct {
	store  *store.Store
	index  *search.Index
	logger *logger.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(st *store.Store, index *search.Index, log *logger.Logger) *FeedService {
	return &FeedService{
		store:  st,
		index:  index,
		logger: log,
	}
}

// FeedRequest is a feed page request. ViewerID is empty for anonymous
// requests; Subscribed restricts the feed to authors the viewer follows.
type FeedRequest struct {
	ViewerID string

	Order      string
	Cursor     string
	Query      string
	Tags       []string
	Kind       string
	Subscribed bool
}

// Feed returns one page of the public feed. Non-empty queries from
// signed-in viewers are recorded in their search history.
func (s *FeedService) Feed(ctx context.Context, req FeedRequest) (*store.FeedPage, error) {
	order := store.FeedOrder(strings.ToUpper(strings.TrimSpace(req.Order)))
	if order == "" {
		order = store.OrderLatest
	}
	if !order.Valid() {
		return nil, apperrors.Validation("order must be LATEST or POPULAR")
	}

	kind := domain.ArticleKind(req.Kind)
	if req.Kind != "" && !kind.Valid() {
		return nil, apperrors.Validation("kind must be free, challenge, or relay")
	}

	q := store.FeedQuery{
		Order:  order,
		Cursor: req.Cursor,
		Tags:   util.NormalizeTags(req.Tags),
		Kind:   kind,
	}

	if req.Subscribed {
		if req.ViewerID == "" {
			return nil, apperrors.Unauthorized("sign in to view your subscription feed")
		}
		viewer, err := s.store.Users.Get(ctx, req.ViewerID)
		if err != nil {
			return nil, fmt.Errorf("lookup viewer: %w", err)
		}
		if len(viewer.Subscribed) == 0 {
			return &store.FeedPage{Items: []domain.FeedItem{}}, nil
		}
		q.AuthorIDs = viewer.Subscribed
	}

	query := strings.TrimSpace(req.Query)
	if query != "" {
		ids, err := s.index.MatchIDs(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search articles: %w", err)
		}
		if len(ids) == 0 {
			// No hits; skip the store scan entirely.
			ids = map[string]bool{}
		}
		q.MatchIDs = ids

		if req.ViewerID != "" {
			if err := s.store.RecordSearch(ctx, req.ViewerID, query); err != nil {
				s.logger.Warn("failed to record search term", "user_id", req.ViewerID, "error", err)
			}
		}
	}

	return s.store.Feed(ctx, q)
}

// RelayFeed returns one page of a relay room's articles.
func (s *FeedService) RelayFeed(ctx context.Context, relayID, orderStr, cursor string) (*store.FeedPage, error) {
	order := store.FeedOrder(strings.ToUpper(strings.TrimSpace(orderStr)))
	if order == "" {
		order = store.OrderLatest
	}
	if !order.Valid() {
		return nil, apperrors.Validation("order must be LATEST or POPULAR")
	}

	if _, err := s.store.Relays.Get(ctx, relayID); err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("relay not found")
		}
		return nil, err
	}

	return s.store.Feed(ctx, store.FeedQuery{
		Order:   order,
		Cursor:  cursor,
		RelayID: relayID,
	})
}

// SearchHistory returns the viewer's recent search terms, newest first.
func (s *FeedService) SearchHistory(ctx context.Context, userID string) ([]string, error) {
	h, err := s.store.SearchHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return h.Terms, nil
}

// ClearSearchHistory drops the viewer's search history.
func (s *FeedService) ClearSearchHistory(ctx context.Context, userID string) error {
	return s.store.ClearSearchHistory(ctx, userID)
}
