package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/service"
)

func (s *Server) registerRelayRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createRelay",
		Method:      http.MethodPost,
		Path:        "/api/v1/relays",
		Summary:     "Create relay room",
		Description: "Opens a multi-author writing room. The host joins automatically.",
		Tags:        []string{"Relays"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRelay)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRelays",
		Method:      http.MethodGet,
		Path:        "/api/v1/relays",
		Summary:     "List relay rooms",
		Tags:        []string{"Relays"},
	}, s.handleListRelays)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRelay",
		Method:      http.MethodGet,
		Path:        "/api/v1/relays/{id}",
		Summary:     "Get relay room",
		Tags:        []string{"Relays"},
	}, s.handleGetRelay)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRelay",
		Method:      http.MethodDelete,
		Path:        "/api/v1/relays/{id}",
		Summary:     "Delete relay room",
		Description: "Closes a room. Host only; the room's articles survive with the relay reference cleared.",
		Tags:        []string{"Relays"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRelay)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinRelay",
		Method:      http.MethodPost,
		Path:        "/api/v1/relays/{id}/join",
		Summary:     "Join relay room",
		Description: "Adds the signed-in user to the room, subject to capacity",
		Tags:        []string{"Relays"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleJoinRelay)

	huma.Register(s.api, huma.Operation{
		OperationID: "leaveRelay",
		Method:      http.MethodPost,
		Path:        "/api/v1/relays/{id}/leave",
		Summary:     "Leave relay room",
		Description: "Removes the signed-in user from the room. Hosts cannot leave their own room.",
		Tags:        []string{"Relays"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLeaveRelay)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRelayArticles",
		Method:      http.MethodGet,
		Path:        "/api/v1/relays/{id}/articles",
		Summary:     "Get relay articles",
		Description: "Returns one page of the room's articles",
		Tags:        []string{"Relays"},
	}, s.handleGetRelayArticles)

	huma.Register(s.api, huma.Operation{
		OperationID: "addRelayNotice",
		Method:      http.MethodPost,
		Path:        "/api/v1/relays/{id}/notices",
		Summary:     "Add relay notice",
		Description: "Pins a host announcement to the room. Host only.",
		Tags:        []string{"Relays"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddRelayNotice)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeRelayNotice",
		Method:      http.MethodDelete,
		Path:        "/api/v1/relays/{id}/notices/{noticeID}",
		Summary:     "Remove relay notice",
		Tags:        []string{"Relays"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveRelayNotice)
}

// === DTOs ===

// CreateRelayRequest is the request body for relay creation.
type CreateRelayRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=100" doc:"Room title"`
	Tags     []string `json:"tags,omitempty" validate:"max=10" doc:"Tags"`
	Capacity int      `json:"capacity" validate:"gte=0,lte=100" doc:"Member limit, zero means unlimited"`
}

// CreateRelayInput wraps relay creation for Huma.
type CreateRelayInput struct {
	Body CreateRelayRequest
}

// RelayIDInput identifies a relay by path parameter.
type RelayIDInput struct {
	ID string `path:"id" doc:"Relay ID"`
}

// ListRelaysInput carries the relay list query parameters.
type ListRelaysInput struct {
	OrderBy string `query:"orderBy" doc:"Order: LATEST (default) or POPULAR"`
	Cursor  string `query:"cursor" doc:"Cursor from the previous page"`
}

// RelayArticlesInput carries the relay feed query parameters.
type RelayArticlesInput struct {
	ID      string `path:"id" doc:"Relay ID"`
	OrderBy string `query:"orderBy" doc:"Order: LATEST (default) or POPULAR"`
	Cursor  string `query:"cursor" doc:"Cursor from the previous page"`
}

// NoticeInput wraps a new notice for Huma.
type NoticeInput struct {
	ID   string `path:"id" doc:"Relay ID"`
	Body struct {
		Body string `json:"body" validate:"required,max=1000" doc:"Notice body"`
	}
}

// NoticeIDInput identifies a notice on a relay.
type NoticeIDInput struct {
	ID       string `path:"id" doc:"Relay ID"`
	NoticeID string `path:"noticeID" doc:"Notice ID"`
}

// RelayNoticeResponse contains a pinned host announcement.
type RelayNoticeResponse struct {
	ID        string    `json:"id" doc:"Notice ID"`
	Body      string    `json:"body" doc:"Notice body"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// RelayResponse contains relay room data in API responses.
type RelayResponse struct {
	ID     string   `json:"id" doc:"Relay ID"`
	Title  string   `json:"title" doc:"Room title"`
	Tags   []string `json:"tags,omitempty" doc:"Tags"`
	HostID string   `json:"host_id" doc:"Host user ID"`

	MemberIDs   []string `json:"member_ids" doc:"Member user IDs"`
	Capacity    int      `json:"capacity" doc:"Member limit, zero means unlimited"`
	MemberCount int      `json:"member_count" doc:"Current member count"`

	ArticleCount int `json:"article_count" doc:"Articles written in the room"`
	LikeCount    int `json:"like_count" doc:"Likes across the room's articles"`

	Notices []RelayNoticeResponse `json:"notices,omitempty" doc:"Pinned host announcements"`

	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// RelayOutput wraps a single relay for Huma.
type RelayOutput struct {
	Body RelayResponse
}

// ListRelaysResponse contains one page of relay rooms.
type ListRelaysResponse struct {
	Relays     []RelayResponse `json:"relays" doc:"Relay rooms in requested order"`
	NextCursor string          `json:"next_cursor,omitempty" doc:"Cursor for the next page, empty on the last page"`
	HasMore    bool            `json:"has_more" doc:"Whether another page exists"`
}

// ListRelaysOutput wraps the relay list for Huma.
type ListRelaysOutput struct {
	Body ListRelaysResponse
}

// === Handlers ===

func (s *Server) handleCreateRelay(ctx context.Context, input *CreateRelayInput) (*RelayOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	relay, err := s.services.Relay.Create(ctx, userID, service.CreateRelayRequest{
		Title:    input.Body.Title,
		Tags:     input.Body.Tags,
		Capacity: input.Body.Capacity,
	})
	if err != nil {
		return nil, err
	}

	return &RelayOutput{Body: mapRelay(relay)}, nil
}

func (s *Server) handleListRelays(ctx context.Context, input *ListRelaysInput) (*ListRelaysOutput, error) {
	page, err := s.services.Relay.List(ctx, input.OrderBy, input.Cursor)
	if err != nil {
		return nil, err
	}

	out := make([]RelayResponse, 0, len(page.Relays))
	for _, r := range page.Relays {
		out = append(out, mapRelay(r))
	}

	return &ListRelaysOutput{
		Body: ListRelaysResponse{
			Relays:     out,
			NextCursor: page.NextCursor,
			HasMore:    page.HasMore,
		},
	}, nil
}

func (s *Server) handleGetRelay(ctx context.Context, input *RelayIDInput) (*RelayOutput, error) {
	relay, err := s.services.Relay.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &RelayOutput{Body: mapRelay(relay)}, nil
}

func (s *Server) handleDeleteRelay(ctx context.Context, input *RelayIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Relay.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Relay deleted"}}, nil
}

func (s *Server) handleJoinRelay(ctx context.Context, input *RelayIDInput) (*RelayOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	relay, err := s.services.Relay.Join(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &RelayOutput{Body: mapRelay(relay)}, nil
}

func (s *Server) handleLeaveRelay(ctx context.Context, input *RelayIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Relay.Leave(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Left relay"}}, nil
}

func (s *Server) handleGetRelayArticles(ctx context.Context, input *RelayArticlesInput) (*FeedOutput, error) {
	page, err := s.services.Feed.RelayFeed(ctx, input.ID, input.OrderBy, input.Cursor)
	if err != nil {
		return nil, err
	}

	return &FeedOutput{Body: mapFeedPage(page)}, nil
}

func (s *Server) handleAddRelayNotice(ctx context.Context, input *NoticeInput) (*RelayOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	relay, err := s.services.Relay.AddNotice(ctx, userID, input.ID, service.NoticeRequest{
		Body: input.Body.Body,
	})
	if err != nil {
		return nil, err
	}

	return &RelayOutput{Body: mapRelay(relay)}, nil
}

func (s *Server) handleRemoveRelayNotice(ctx context.Context, input *NoticeIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Relay.RemoveNotice(ctx, userID, input.ID, input.NoticeID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Notice removed"}}, nil
}

// === Helpers ===

func mapRelay(r *domain.Relay) RelayResponse {
	notices := make([]RelayNoticeResponse, 0, len(r.Notices))
	for _, n := range r.Notices {
		notices = append(notices, RelayNoticeResponse{
			ID:        n.ID,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
		})
	}

	return RelayResponse{
		ID:           r.ID,
		Title:        r.Title,
		Tags:         r.Tags,
		HostID:       r.HostID,
		MemberIDs:    r.MemberIDs,
		Capacity:     r.Capacity,
		MemberCount:  r.MemberCount,
		ArticleCount: r.ArticleCount,
		LikeCount:    r.LikeCount,
		Notices:      notices,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
