package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwell-app/inkwell-server/internal/service"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Get feed",
		Description: "Returns one page of the public feed with embedded author summaries and the next cursor",
		Tags:        []string{"Feed"},
	}, s.handleGetFeed)
}

// === DTOs ===

// FeedInput carries the feed query parameters.
type FeedInput struct {
	OrderBy    string `query:"orderBy" doc:"Feed order: LATEST (default) or POPULAR"`
	Cursor     string `query:"cursor" doc:"Cursor from the previous page"`
	Query      string `query:"q" doc:"Free-text search over title and body"`
	Tags       string `query:"tags" doc:"Comma-separated tags, all must match"`
	Kind       string `query:"kind" doc:"Restrict to one article kind"`
	Subscribed bool   `query:"subscribed" doc:"Restrict to authors the viewer follows (requires auth)"`
}

// FeedPageResponse is one page of feed items.
type FeedPageResponse struct {
	Items      []FeedItemResponse `json:"items" doc:"Feed items, in requested order"`
	NextCursor string             `json:"next_cursor,omitempty" doc:"Cursor for the next page, empty on the last page"`
	HasMore    bool               `json:"has_more" doc:"Whether another page exists"`
}

// FeedOutput wraps a feed page for Huma.
type FeedOutput struct {
	Body FeedPageResponse
}

// === Handlers ===

func (s *Server) handleGetFeed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	page, err := s.services.Feed.Feed(ctx, service.FeedRequest{
		ViewerID:   OptionalUserID(ctx),
		Order:      input.OrderBy,
		Cursor:     input.Cursor,
		Query:      input.Query,
		Tags:       splitTags(input.Tags),
		Kind:       input.Kind,
		Subscribed: input.Subscribed,
	})
	if err != nil {
		return nil, err
	}

	return &FeedOutput{Body: mapFeedPage(page)}, nil
}

// === Helpers ===

func mapFeedPage(page *store.FeedPage) FeedPageResponse {
	return FeedPageResponse{
		Items:      mapFeedItems(page.Items),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
