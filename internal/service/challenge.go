package service

import (
	"context"
	"fmt"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// ChallengeService exposes the daily writing challenge: today's prompt and
// the nightly rotation that selects it.
type ChallengeService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewChallengeService creates a new challenge service.
func NewChallengeService(st *store.Store, log *logger.Logger) *ChallengeService {
	return &ChallengeService{
		store:  st,
		logger: log,
	}
}

// TodayResponse is the daily challenge state for a viewer.
type TodayResponse struct {
	Prompt *domain.Prompt `json:"prompt"`
	Day    string         `json:"day"`
	Done   bool           `json:"done"` // viewer already submitted today
}

// Today returns the active prompt and whether the viewer has already
// completed today's challenge. ViewerID may be empty for anonymous reads.
func (s *ChallengeService) Today(ctx context.Context, viewerID string) (*TodayResponse, error) {
	day := s.store.Today()

	prompt, err := s.store.PromptForDay(ctx, day)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("no challenge prompt active today")
		}
		return nil, fmt.Errorf("lookup prompt: %w", err)
	}

	resp := &TodayResponse{Prompt: prompt, Day: day}
	if viewerID != "" {
		viewer, err := s.store.Users.Get(ctx, viewerID)
		if err == nil {
			resp.Done = viewer.DailyDone
		} else if !apperrors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return resp, nil
}

// Rotate activates a prompt for the given day and, when the activation is
// fresh, resets every user's daily flag. Safe to call repeatedly: reruns
// for an already-rotated day change nothing.
func (s *ChallengeService) Rotate(ctx context.Context, day string) (*domain.Prompt, error) {
	prompt, fresh, err := s.store.ActivatePromptForDay(ctx, day)
	if err != nil {
		if apperrors.Is(err, store.ErrNotFound) {
			s.logger.Error("prompt pool exhausted, no challenge available", "day", day)
		}
		return nil, err
	}

	if !fresh {
		s.logger.Debug("rotation already done for day", "day", day, "prompt_id", prompt.ID)
		return prompt, nil
	}

	reset, err := s.store.ResetDailyFlags(ctx)
	if err != nil {
		return nil, fmt.Errorf("reset daily flags: %w", err)
	}

	remaining, err := s.store.UnusedPromptCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count unused prompts: %w", err)
	}

	s.logger.Info("daily challenge rotated",
		"day", day,
		"prompt_id", prompt.ID,
		"flags_reset", reset,
		"prompts_remaining", remaining,
	)
	if remaining <= 7 {
		s.logger.Warn("prompt pool running low", "prompts_remaining", remaining)
	}

	return prompt, nil
}

// AddPrompt appends a prompt to the selectable pool.
func (s *ChallengeService) AddPrompt(ctx context.Context, promptID string, p *domain.Prompt) error {
	return s.store.Prompts.Create(ctx, promptID, p)
}
