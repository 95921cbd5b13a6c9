package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getMyPage",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get my page",
		Description: "Returns the signed-in user's dashboard: account, categories, and stamp history",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMyArticles",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/articles",
		Summary:     "Get my articles",
		Description: "Returns a page of the signed-in user's own articles, drafts included",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyArticles)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMyScraps",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/scraps",
		Summary:     "Get my scraps",
		Description: "Returns the signed-in user's scrapped articles, optionally by category",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyScraps)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSearchHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/searches",
		Summary:     "Get search history",
		Description: "Returns the signed-in user's recent feed search terms, newest first",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSearchHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSearchHistory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/me/searches",
		Summary:     "Clear search history",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearSearchHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSubscriptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/subscriptions",
		Summary:     "Get subscriptions",
		Description: "Returns the users the signed-in user follows",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSubscriptions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get profile",
		Description: "Returns a user's public profile",
		Tags:        []string{"Users"},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserArticles",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/articles",
		Summary:     "Get user articles",
		Description: "Returns a page of a user's public articles",
		Tags:        []string{"Users"},
	}, s.handleGetUserArticles)

	huma.Register(s.api, huma.Operation{
		OperationID: "subscribe",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/subscribe",
		Summary:     "Subscribe to user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSubscribe)

	huma.Register(s.api, huma.Operation{
		OperationID: "unsubscribe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{id}/subscribe",
		Summary:     "Unsubscribe from user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnsubscribe)
}

// === DTOs ===

// UserIDInput identifies a user by path parameter.
type UserIDInput struct {
	ID string `path:"id" doc:"User ID"`
}

// MyPageResponse is the signed-in user's dashboard.
type MyPageResponse struct {
	User       UserResponse       `json:"user" doc:"Account data"`
	Categories []CategoryResponse `json:"categories" doc:"Categories in display order"`
	StampDates []string           `json:"stamp_dates" doc:"Days with a completed challenge (YYYY-MM-DD)"`
}

// MyPageOutput wraps the dashboard for Huma.
type MyPageOutput struct {
	Body MyPageResponse
}

// MyArticlesInput carries the my-articles query parameters.
type MyArticlesInput struct {
	Cursor     string `query:"cursor" doc:"Cursor from the previous page"`
	CategoryID string `query:"category_id" doc:"Restrict to one category"`
}

// MyScrapsInput carries the my-scraps query parameters.
type MyScrapsInput struct {
	CategoryID string `query:"category_id" doc:"Restrict to one category"`
}

// ScrapsResponse contains the user's scrapped articles.
type ScrapsResponse struct {
	Items []FeedItemResponse `json:"items" doc:"Scrapped articles, newest scrap first"`
}

// ScrapsOutput wraps the scrap list for Huma.
type ScrapsOutput struct {
	Body ScrapsResponse
}

// SearchHistoryResponse contains recent search terms.
type SearchHistoryResponse struct {
	Terms []string `json:"terms" doc:"Search terms, newest first"`
}

// SearchHistoryOutput wraps the search history for Huma.
type SearchHistoryOutput struct {
	Body SearchHistoryResponse
}

// SubscriptionsResponse contains the users the viewer follows.
type SubscriptionsResponse struct {
	Users []AuthorResponse `json:"users" doc:"Followed users"`
}

// SubscriptionsOutput wraps the subscription list for Huma.
type SubscriptionsOutput struct {
	Body SubscriptionsResponse
}

// ProfileResponse is the public view of a user.
type ProfileResponse struct {
	AuthorResponse
	ArticleCount int  `json:"article_count" doc:"Number of public articles"`
	Subscribed   bool `json:"subscribed" doc:"Whether the viewer follows this user"`
}

// ProfileOutput wraps a profile for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// UserArticlesInput carries the user-articles query parameters.
type UserArticlesInput struct {
	ID     string `path:"id" doc:"User ID"`
	Cursor string `query:"cursor" doc:"Cursor from the previous page"`
}

// === Handlers ===

func (s *Server) handleGetMyPage(ctx context.Context, _ *struct{}) (*MyPageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.services.User.GetMyPage(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MyPageOutput{
		Body: MyPageResponse{
			User:       mapUser(page.User),
			Categories: mapCategories(page.Categories),
			StampDates: page.StampDates,
		},
	}, nil
}

func (s *Server) handleGetMyArticles(ctx context.Context, input *MyArticlesInput) (*FeedOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.services.User.MyArticles(ctx, userID, input.Cursor, input.CategoryID)
	if err != nil {
		return nil, err
	}

	return &FeedOutput{Body: mapFeedPage(page)}, nil
}

func (s *Server) handleGetMyScraps(ctx context.Context, input *MyScrapsInput) (*ScrapsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.User.Scraps(ctx, userID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	return &ScrapsOutput{Body: ScrapsResponse{Items: mapFeedItems(items)}}, nil
}

func (s *Server) handleGetSearchHistory(ctx context.Context, _ *struct{}) (*SearchHistoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	terms, err := s.services.Feed.SearchHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		terms = []string{}
	}

	return &SearchHistoryOutput{Body: SearchHistoryResponse{Terms: terms}}, nil
}

func (s *Server) handleClearSearchHistory(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Feed.ClearSearchHistory(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Search history cleared"}}, nil
}

func (s *Server) handleGetSubscriptions(ctx context.Context, _ *struct{}) (*SubscriptionsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	subs, err := s.services.User.Subscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]AuthorResponse, 0, len(subs))
	for _, u := range subs {
		out = append(out, mapAuthor(u))
	}

	return &SubscriptionsOutput{Body: SubscriptionsResponse{Users: out}}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, input *UserIDInput) (*ProfileOutput, error) {
	p, err := s.services.User.GetProfile(ctx, OptionalUserID(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{
		Body: ProfileResponse{
			AuthorResponse: mapAuthor(p.AuthorSummary),
			ArticleCount:   p.ArticleCount,
			Subscribed:     p.Subscribed,
		},
	}, nil
}

func (s *Server) handleGetUserArticles(ctx context.Context, input *UserArticlesInput) (*FeedOutput, error) {
	page, err := s.services.User.Articles(ctx, input.ID, input.Cursor)
	if err != nil {
		return nil, err
	}

	return &FeedOutput{Body: mapFeedPage(page)}, nil
}

func (s *Server) handleSubscribe(ctx context.Context, input *UserIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.Subscribe(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Subscribed"}}, nil
}

func (s *Server) handleUnsubscribe(ctx context.Context, input *UserIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.Unsubscribe(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Unsubscribed"}}, nil
}
