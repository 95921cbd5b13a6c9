package store

import (
	"context"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
)

// Subscribe records subscriberID following targetID. The subscription list
// and the target's follower count move in the same transaction.
func (s *Store) Subscribe(ctx context.Context, subscriberID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if subscriberID == targetID {
		return apperrors.Validation("cannot subscribe to yourself")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var subscriber, target domain.User
		if err := getDoc(txn, prefixUser+subscriberID, &subscriber); err != nil {
			return err
		}
		if err := getDoc(txn, prefixUser+targetID, &target); err != nil {
			return err
		}

		if subscriber.IsSubscribedTo(targetID) {
			return apperrors.Conflict("already subscribed")
		}

		subscriber.Subscribed = append(subscriber.Subscribed, targetID)
		target.FollowerCount++

		if err := putDoc(txn, prefixUser+subscriberID, &subscriber); err != nil {
			return err
		}
		return putDoc(txn, prefixUser+targetID, &target)
	})
}

// Unsubscribe removes a subscription and decrements the target's follower
// count. Returns ErrNotFound when no subscription exists.
func (s *Store) Unsubscribe(ctx context.Context, subscriberID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var subscriber domain.User
		if err := getDoc(txn, prefixUser+subscriberID, &subscriber); err != nil {
			return err
		}

		idx := slices.Index(subscriber.Subscribed, targetID)
		if idx < 0 {
			return apperrors.NotFound("subscription")
		}
		subscriber.Subscribed = slices.Delete(subscriber.Subscribed, idx, idx+1)

		if err := putDoc(txn, prefixUser+subscriberID, &subscriber); err != nil {
			return err
		}

		var target domain.User
		err := getDoc(txn, prefixUser+targetID, &target)
		if err == ErrNotFound {
			// Target account is gone; the subscription edge was stale.
			return nil
		}
		if err != nil {
			return err
		}
		if target.FollowerCount > 0 {
			target.FollowerCount--
		}
		return putDoc(txn, prefixUser+targetID, &target)
	})
}

// ResetDailyFlags clears every user's daily challenge flag. Runs as a single
// transaction so the rotation job flips all users at once.
func (s *Store) ResetDailyFlags(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	reset := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		var dirty []*domain.User
		err := scanPrefix(txn, prefixUser, func(key string, u *domain.User) (bool, error) {
			if strings.HasPrefix(key, prefixUser+"idx:") {
				return true, nil
			}
			if u.DailyDone {
				dirty = append(dirty, u)
			}
			return true, nil
		})
		if err != nil {
			return err
		}

		for _, u := range dirty {
			u.DailyDone = false
			if err := putDoc(txn, prefixUser+u.ID, u); err != nil {
				return err
			}
			reset++
		}
		return nil
	})
	return reset, err
}

// SearchHistory returns the user's recent feed search terms, newest first.
func (s *Store) SearchHistory(ctx context.Context, userID string) (*domain.SearchHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := &domain.SearchHistory{UserID: userID}
	err := s.db.View(func(txn *badger.Txn) error {
		err := getDoc(txn, prefixHistory+userID, h)
		if err == ErrNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// RecordSearch appends a search term to the user's history, deduplicating
// and evicting the oldest once the bounded list is full.
func (s *Store) RecordSearch(ctx context.Context, userID, term string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		h := domain.SearchHistory{UserID: userID}
		err := getDoc(txn, prefixHistory+userID, &h)
		if err != nil && err != ErrNotFound {
			return err
		}
		h.UserID = userID
		h.Record(term)
		return putDoc(txn, prefixHistory+userID, &h)
	})
}

// ClearSearchHistory drops the user's search history. Idempotent.
func (s *Store) ClearSearchHistory(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return deleteKey(txn, prefixHistory+userID)
	})
}
