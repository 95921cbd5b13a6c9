package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/service"
)

func (s *Server) registerChallengeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTodayChallenge",
		Method:      http.MethodGet,
		Path:        "/api/v1/challenge/today",
		Summary:     "Get today's challenge",
		Description: "Returns the prompt active today and, for signed-in viewers, whether they already submitted",
		Tags:        []string{"Challenge"},
	}, s.handleGetTodayChallenge)

	huma.Register(s.api, huma.Operation{
		OperationID: "submitChallengeArticle",
		Method:      http.MethodPost,
		Path:        "/api/v1/challenge/articles",
		Summary:     "Submit a challenge article",
		Description: "Writes an article against today's prompt. The first submission of the day marks the challenge done and earns a stamp",
		Tags:        []string{"Challenge"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSubmitChallengeArticle)
}

// === DTOs ===

// PromptResponse contains prompt data in API responses.
type PromptResponse struct {
	ID        string    `json:"id" doc:"Prompt ID"`
	Content   string    `json:"content" doc:"Prompt text"`
	ActiveDay string    `json:"active_day" doc:"Day the prompt is active (YYYY-MM-DD)"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// TodayChallengeResponse is the daily challenge state for the viewer.
type TodayChallengeResponse struct {
	Prompt PromptResponse `json:"prompt" doc:"Today's prompt"`
	Day    string         `json:"day" doc:"Today's day stamp (YYYY-MM-DD)"`
	Done   bool           `json:"done" doc:"Whether the viewer already submitted today"`
}

// TodayChallengeOutput wraps the challenge state for Huma.
type TodayChallengeOutput struct {
	Body TodayChallengeResponse
}

// ChallengeArticleRequest is the request body for a challenge submission.
// The prompt binding comes from today's active prompt, never from the client.
type ChallengeArticleRequest struct {
	Title      string   `json:"title" validate:"required,max=200" doc:"Title"`
	Body       string   `json:"body" validate:"required,max=50000" doc:"Body text"`
	Tags       []string `json:"tags,omitempty" validate:"max=10" doc:"Tags"`
	CategoryID string   `json:"category_id,omitempty" doc:"Category to file the article under"`
	Public     bool     `json:"public" doc:"Whether the article is publicly visible"`
	Draft      bool     `json:"draft" doc:"Save as draft instead of submitting"`
}

// ChallengeArticleInput wraps a challenge submission for Huma.
type ChallengeArticleInput struct {
	Body ChallengeArticleRequest
}

// === Handlers ===

func (s *Server) handleGetTodayChallenge(ctx context.Context, _ *struct{}) (*TodayChallengeOutput, error) {
	resp, err := s.services.Challenge.Today(ctx, OptionalUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &TodayChallengeOutput{
		Body: TodayChallengeResponse{
			Prompt: mapPrompt(resp.Prompt),
			Day:    resp.Day,
			Done:   resp.Done,
		},
	}, nil
}

func (s *Server) handleSubmitChallengeArticle(ctx context.Context, input *ChallengeArticleInput) (*ArticleOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.services.Article.Create(ctx, userID, service.CreateArticleRequest{
		Kind:       domain.KindChallenge,
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

// === Helpers ===

func mapPrompt(p *domain.Prompt) PromptResponse {
	return PromptResponse{
		ID:        p.ID,
		Content:   p.Content,
		ActiveDay: p.ActiveDay,
		CreatedAt: p.CreatedAt,
	}
}
