package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
)

// JoinRelay adds a member, enforcing capacity inside the transaction so two
// concurrent joins cannot both squeeze into the last seat.
func (s *Store) JoinRelay(ctx context.Context, relayID, userID string) (*domain.Relay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var relay domain.Relay
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getDoc(txn, prefixRelay+relayID, &relay); err != nil {
			return err
		}
		if relay.IsMember(userID) {
			return apperrors.Conflict("already a member")
		}
		if relay.IsFull() {
			return apperrors.Conflict("relay is full")
		}
		relay.AddMember(userID)
		relay.UpdatedAt = time.Now()
		return putDoc(txn, prefixRelay+relayID, &relay)
	})
	if err != nil {
		return nil, err
	}
	return &relay, nil
}

// LeaveRelay removes a member. The host cannot leave their own relay; they
// delete it instead.
func (s *Store) LeaveRelay(ctx context.Context, relayID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var relay domain.Relay
		if err := getDoc(txn, prefixRelay+relayID, &relay); err != nil {
			return err
		}
		if relay.HostID == userID {
			return apperrors.Forbidden("host cannot leave their own relay")
		}
		if !relay.IsMember(userID) {
			return apperrors.NotFound("membership not found")
		}
		relay.RemoveMember(userID)
		relay.UpdatedAt = time.Now()
		return putDoc(txn, prefixRelay+relayID, &relay)
	})
}

// AddRelayNotice appends a host announcement to the relay.
func (s *Store) AddRelayNotice(ctx context.Context, relayID string, notice domain.RelayNotice) (*domain.Relay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var relay domain.Relay
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getDoc(txn, prefixRelay+relayID, &relay); err != nil {
			return err
		}
		relay.Notices = append(relay.Notices, notice)
		relay.UpdatedAt = time.Now()
		return putDoc(txn, prefixRelay+relayID, &relay)
	})
	if err != nil {
		return nil, err
	}
	return &relay, nil
}

// RemoveRelayNotice deletes a notice by ID.
func (s *Store) RemoveRelayNotice(ctx context.Context, relayID, noticeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var relay domain.Relay
		if err := getDoc(txn, prefixRelay+relayID, &relay); err != nil {
			return err
		}

		kept := relay.Notices[:0]
		found := false
		for _, n := range relay.Notices {
			if n.ID == noticeID {
				found = true
				continue
			}
			kept = append(kept, n)
		}
		if !found {
			return apperrors.NotFound("notice not found")
		}
		relay.Notices = kept
		relay.UpdatedAt = time.Now()
		return putDoc(txn, prefixRelay+relayID, &relay)
	})
}

// DeleteRelay removes a relay room. Articles written in the room survive
// with their relay reference nulled, mirroring how category deletion leaves
// its articles in place.
func (s *Store) DeleteRelay(ctx context.Context, relayID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var relay domain.Relay
		if err := getDoc(txn, prefixRelay+relayID, &relay); err != nil {
			return err
		}

		var orphaned []*domain.Article
		err := scanPrefix(txn, prefixArticle, func(key string, a *domain.Article) (bool, error) {
			if strings.HasPrefix(key, prefixArticle+"idx:") {
				return true, nil
			}
			if a.RelayID == relayID {
				orphaned = append(orphaned, a)
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		for _, a := range orphaned {
			a.RelayID = ""
			if err := putDoc(txn, prefixArticle+a.ID, a); err != nil {
				return err
			}
		}

		return deleteKey(txn, prefixRelay+relayID)
	})
}

// RelayPage is one page of relay rooms.
type RelayPage struct {
	Relays     []*domain.Relay
	NextCursor string
	HasMore    bool
}

// ListRelays returns one page of relay rooms sorted by the given feed order,
// where popularity is the room's aggregate like count. Cursors follow the
// feed's format: the last room's ID for LATEST, "<id>_<likes>" for POPULAR.
func (s *Store) ListRelays(ctx context.Context, order FeedOrder, cursor string) (*RelayPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := parseCursor(order, cursor)
	if err != nil {
		return nil, err
	}

	relays := []*domain.Relay{}
	for r, err := range s.Relays.List(ctx) {
		if err != nil {
			return nil, err
		}
		if relayAfterCursor(order, r, c) {
			relays = append(relays, r)
		}
	}

	sort.Slice(relays, func(i, j int) bool {
		a, b := relays[i], relays[j]
		if order == OrderPopular && a.LikeCount != b.LikeCount {
			return a.LikeCount > b.LikeCount
		}
		return a.ID > b.ID
	})

	page := &RelayPage{Relays: relays}
	if len(relays) > PageSize {
		page.Relays = relays[:PageSize]
		page.HasMore = true
		last := page.Relays[PageSize-1]
		if order == OrderPopular {
			page.NextCursor = fmt.Sprintf("%s_%d", last.ID, last.LikeCount)
		} else {
			page.NextCursor = last.ID
		}
	}
	return page, nil
}

// relayAfterCursor reports whether r sorts strictly after the cursor
// position. A nil cursor admits everything.
func relayAfterCursor(order FeedOrder, r *domain.Relay, c *feedCursor) bool {
	if c == nil {
		return true
	}
	if order == OrderPopular {
		if r.LikeCount != c.likes {
			return r.LikeCount < c.likes
		}
		return r.ID < c.id
	}
	return r.ID < c.id
}
