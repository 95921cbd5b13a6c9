package store

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
)

// PromptForDay returns the prompt activated for the given day, or
// ErrNotFound if rotation has not run for that day.
func (s *Store) PromptForDay(ctx context.Context, day string) (*domain.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found *domain.Prompt
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixPrompt, func(key string, p *domain.Prompt) (bool, error) {
			if strings.HasPrefix(key, prefixPrompt+"idx:") {
				return true, nil
			}
			if p.ActiveOn(day) {
				found = p
				return false, nil
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperrors.NotFoundf("no prompt active on %s", day)
	}
	return found, nil
}

// ActivatePromptForDay selects a random unused prompt and marks it active
// for the given day. Idempotent: if a prompt is already active for that day
// it is returned unchanged with fresh=false, so a rotation job restarted
// mid-day cannot burn a second prompt. Returns ErrNotFound when the unused
// pool is empty.
func (s *Store) ActivatePromptForDay(ctx context.Context, day string) (p *domain.Prompt, fresh bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var selected *domain.Prompt
	err = s.db.Update(func(txn *badger.Txn) error {
		var unused []*domain.Prompt
		err := scanPrefix(txn, prefixPrompt, func(key string, p *domain.Prompt) (bool, error) {
			if strings.HasPrefix(key, prefixPrompt+"idx:") {
				return true, nil
			}
			if p.ActiveOn(day) {
				selected = p
				return false, nil
			}
			if !p.Used {
				unused = append(unused, p)
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		if selected != nil {
			return nil
		}
		if len(unused) == 0 {
			return apperrors.NotFound("prompt pool exhausted")
		}

		selected = unused[rand.IntN(len(unused))]
		selected.Used = true
		selected.ActiveDay = day
		fresh = true
		return putDoc(txn, prefixPrompt+selected.ID, selected)
	})
	if err != nil {
		return nil, false, err
	}
	return selected, fresh, nil
}

// UnusedPromptCount reports how many prompts remain selectable.
func (s *Store) UnusedPromptCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixPrompt, func(key string, p *domain.Prompt) (bool, error) {
			if strings.HasPrefix(key, prefixPrompt+"idx:") {
				return true, nil
			}
			if !p.Used {
				count++
			}
			return true, nil
		})
	})
	return count, err
}
