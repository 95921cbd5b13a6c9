package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwell-app/inkwell-server/internal/domain"
)

// Article writes maintain every denormalized counter in the same Badger
// transaction as the state change that moves it, so a crash can never leave
// a count disagreeing with the documents it summarizes:
//
//   publish    -> author.ArticleCount+1, category.ArticleCount+1, relay.ArticleCount+1
//   unpublish  -> the same counters -1
//   move       -> old category -1, new category +1
//   delete     -> as unpublish, plus cascading comment/like/scrap removal
//
// Challenge submissions additionally stamp the author's calendar.

// CreateArticle stores a new article and applies its counter contributions.
func (s *Store) CreateArticle(ctx context.Context, a *domain.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	today := s.Today()

	err := s.db.Update(func(txn *badger.Txn) error {
		key := prefixArticle + a.ID
		exists, err := hasKey(txn, key)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyExists
		}

		if err := putDoc(txn, key, a); err != nil {
			return err
		}

		if a.Visible() {
			if err := s.applyCounters(txn, a, +1); err != nil {
				return err
			}
		}

		if a.Kind == domain.KindChallenge && a.State == domain.StateSubmitted {
			if err := s.stampAuthor(txn, a.AuthorID, a.PromptDay, today); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if a.Visible() {
		if err := s.indexer.IndexArticle(a); err != nil {
			s.logger.Warn("failed to index article", "article_id", a.ID, "error", err)
		}
	}
	return nil
}

// UpdateArticle rewrites an article, diffing the old document to keep every
// affected counter in step. The caller controls content and visibility
// fields; like/comment/scrap counts are carried over from the stored copy.
func (s *Store) UpdateArticle(ctx context.Context, updated *domain.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	today := s.Today()

	err := s.db.Update(func(txn *badger.Txn) error {
		key := prefixArticle + updated.ID

		var old domain.Article
		if err := getDoc(txn, key, &old); err != nil {
			return err
		}

		// Aggregates belong to the store, not the caller.
		updated.LikeCount = old.LikeCount
		updated.CommentCount = old.CommentCount
		updated.ScrapCount = old.ScrapCount
		updated.CreatedAt = old.CreatedAt

		if err := putDoc(txn, key, updated); err != nil {
			return err
		}

		if old.Visible() {
			if err := s.applyCounters(txn, &old, -1); err != nil {
				return err
			}
		}
		if updated.Visible() {
			if err := s.applyCounters(txn, updated, +1); err != nil {
				return err
			}
		}

		oldStamps := old.Kind == domain.KindChallenge && old.State == domain.StateSubmitted
		newStamps := updated.Kind == domain.KindChallenge && updated.State == domain.StateSubmitted
		if !oldStamps && newStamps {
			if err := s.stampAuthor(txn, updated.AuthorID, updated.PromptDay, today); err != nil {
				return err
			}
		}
		if oldStamps && !newStamps {
			if err := s.unstampAuthor(txn, &old, today); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if updated.Visible() {
		if err := s.indexer.IndexArticle(updated); err != nil {
			s.logger.Warn("failed to index article", "article_id", updated.ID, "error", err)
		}
	} else if err := s.indexer.RemoveArticle(updated.ID); err != nil {
		s.logger.Warn("failed to deindex article", "article_id", updated.ID, "error", err)
	}
	return nil
}

// DeleteArticle removes an article, reverses its counter contributions, and
// cascades away its comments, likes, and scraps.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	today := s.Today()

	err := s.db.Update(func(txn *badger.Txn) error {
		key := prefixArticle + id

		var a domain.Article
		if err := getDoc(txn, key, &a); err != nil {
			return err
		}

		if a.Visible() {
			if err := s.applyCounters(txn, &a, -1); err != nil {
				return err
			}
		}

		if a.Kind == domain.KindChallenge && a.State == domain.StateSubmitted {
			if err := s.unstampAuthor(txn, &a, today); err != nil {
				return err
			}
		}

		if err := s.cascadeArticle(txn, &a); err != nil {
			return err
		}

		return deleteKey(txn, key)
	})
	if err != nil {
		return err
	}

	if err := s.indexer.RemoveArticle(id); err != nil {
		s.logger.Warn("failed to deindex article", "article_id", id, "error", err)
	}
	return nil
}

// applyCounters adds delta to the author, category, and relay counters an
// article contributes to while visible.
func (s *Store) applyCounters(txn *badger.Txn, a *domain.Article, delta int) error {
	var author domain.User
	if err := getDoc(txn, prefixUser+a.AuthorID, &author); err != nil {
		return fmt.Errorf("article %s author: %w", a.ID, err)
	}
	author.ArticleCount += delta
	if author.ArticleCount < 0 {
		author.ArticleCount = 0
	}
	if err := putDoc(txn, prefixUser+a.AuthorID, &author); err != nil {
		return err
	}

	if a.CategoryID != "" {
		var cat domain.Category
		err := getDoc(txn, prefixCategory+a.CategoryID, &cat)
		if err == nil {
			cat.ArticleCount += delta
			if cat.ArticleCount < 0 {
				cat.ArticleCount = 0
			}
			if err := putDoc(txn, prefixCategory+a.CategoryID, &cat); err != nil {
				return err
			}
		} else if err != ErrNotFound {
			return err
		}
	}

	if a.RelayID != "" {
		var relay domain.Relay
		err := getDoc(txn, prefixRelay+a.RelayID, &relay)
		if err == nil {
			relay.ArticleCount += delta
			if relay.ArticleCount < 0 {
				relay.ArticleCount = 0
			}
			if err := putDoc(txn, prefixRelay+a.RelayID, &relay); err != nil {
				return err
			}
		} else if err != ErrNotFound {
			return err
		}
	}

	return nil
}

// stampAuthor records a completed challenge day for the author. Submitting a
// second challenge on the same day is a no-op via User.AddStamp.
func (s *Store) stampAuthor(txn *badger.Txn, authorID, day, today string) error {
	var author domain.User
	if err := getDoc(txn, prefixUser+authorID, &author); err != nil {
		return err
	}
	author.AddStamp(day)
	if day == today {
		author.DailyDone = true
	}
	return putDoc(txn, prefixUser+authorID, &author)
}

// unstampAuthor reverses a challenge stamp, but only when no other submitted
// challenge article remains for the same author and day.
func (s *Store) unstampAuthor(txn *badger.Txn, a *domain.Article, today string) error {
	another := false
	err := scanPrefix(txn, prefixArticle, func(key string, other *domain.Article) (bool, error) {
		if strings.HasPrefix(key, prefixArticle+"idx:") {
			return true, nil
		}
		if other.ID == a.ID || other.AuthorID != a.AuthorID {
			return true, nil
		}
		if other.Kind == domain.KindChallenge && other.State == domain.StateSubmitted && other.PromptDay == a.PromptDay {
			another = true
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return err
	}
	if another {
		return nil
	}

	var author domain.User
	if err := getDoc(txn, prefixUser+a.AuthorID, &author); err != nil {
		return err
	}
	author.RemoveStamp(a.PromptDay)
	if a.PromptDay == today {
		author.DailyDone = false
	}
	return putDoc(txn, prefixUser+a.AuthorID, &author)
}

// cascadeArticle removes the comments, likes, and scraps hanging off an
// article being deleted, reversing the scrap counters on categories. Like
// counts on the article itself die with the document; relay like totals are
// reduced by the article's likes.
func (s *Store) cascadeArticle(txn *badger.Txn, a *domain.Article) error {
	var doomed []string

	err := scanPrefix(txn, prefixComment+a.ID+":", func(key string, _ *domain.Comment) (bool, error) {
		doomed = append(doomed, key)
		return true, nil
	})
	if err != nil {
		return err
	}

	err = scanPrefix(txn, prefixLike+a.ID+":", func(key string, _ *domain.Like) (bool, error) {
		doomed = append(doomed, key)
		return true, nil
	})
	if err != nil {
		return err
	}

	err = scanPrefix(txn, prefixScrap+a.ID+":", func(key string, sc *domain.Scrap) (bool, error) {
		doomed = append(doomed, key, prefixScrapBy+sc.UserID+":"+sc.ArticleID)
		if sc.CategoryID != "" {
			var cat domain.Category
			err := getDoc(txn, prefixCategory+sc.CategoryID, &cat)
			if err == ErrNotFound {
				return true, nil
			}
			if err != nil {
				return false, err
			}
			if cat.ScrapCount > 0 {
				cat.ScrapCount--
			}
			if err := putDoc(txn, prefixCategory+sc.CategoryID, &cat); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	if a.RelayID != "" && a.LikeCount > 0 {
		var relay domain.Relay
		err := getDoc(txn, prefixRelay+a.RelayID, &relay)
		if err == nil {
			relay.LikeCount -= a.LikeCount
			if relay.LikeCount < 0 {
				relay.LikeCount = 0
			}
			if err := putDoc(txn, prefixRelay+a.RelayID, &relay); err != nil {
				return err
			}
		} else if err != ErrNotFound {
			return err
		}
	}

	for _, key := range doomed {
		if err := deleteKey(txn, key); err != nil {
			return err
		}
	}
	return nil
}

// FeedQuery filters and orders a feed page request.
type FeedQuery struct {
	Order  FeedOrder
	Cursor string

	// Optional filters; zero values mean "no filter".
	Tags       []string
	Kind       domain.ArticleKind
	AuthorIDs  []string        // restrict to these authors (subscription feed)
	MatchIDs   map[string]bool // restrict to these IDs (full-text results)
	RelayID    string
	CategoryID string

	// IncludeHidden admits drafts and private articles. Only safe for
	// queries already scoped to the requesting user's own articles.
	IncludeHidden bool
}

func (q *FeedQuery) matches(a *domain.Article) bool {
	if !q.IncludeHidden && !a.Visible() {
		return false
	}
	if q.Kind != "" && a.Kind != q.Kind {
		return false
	}
	if q.RelayID != "" && a.RelayID != q.RelayID {
		return false
	}
	if q.CategoryID != "" && a.CategoryID != q.CategoryID {
		return false
	}
	if len(q.AuthorIDs) > 0 && !slices.Contains(q.AuthorIDs, a.AuthorID) {
		return false
	}
	if q.MatchIDs != nil && !q.MatchIDs[a.ID] {
		return false
	}
	for _, tag := range q.Tags {
		if !slices.Contains(a.Tags, tag) {
			return false
		}
	}
	return true
}

// Feed returns one page of articles with authors embedded. Pages are bounded
// by the cursor position, so an article that gains likes between two POPULAR
// page fetches is either seen at its old position or skipped, never
// duplicated. The whole page is read from a single Badger snapshot.
func (s *Store) Feed(ctx context.Context, q FeedQuery) (*FeedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order := q.Order
	if order == "" {
		order = OrderLatest
	}

	cursor, err := parseCursor(order, q.Cursor)
	if err != nil {
		return nil, err
	}

	page := &FeedPage{Items: []domain.FeedItem{}}

	err = s.db.View(func(txn *badger.Txn) error {
		var matched []*domain.Article
		err := scanPrefix(txn, prefixArticle, func(key string, a *domain.Article) (bool, error) {
			if strings.HasPrefix(key, prefixArticle+"idx:") {
				return true, nil
			}
			if !q.matches(a) {
				return true, nil
			}
			if !afterCursor(order, a, cursor) {
				return true, nil
			}
			matched = append(matched, a)
			return true, nil
		})
		if err != nil {
			return err
		}

		sort.Slice(matched, func(i, j int) bool {
			return feedLess(order, matched[i], matched[j])
		})

		if len(matched) > PageSize {
			page.HasMore = true
			matched = matched[:PageSize]
		}

		authors := make(map[string]domain.AuthorSummary)
		for _, a := range matched {
			summary, ok := authors[a.AuthorID]
			if !ok {
				var u domain.User
				if err := getDoc(txn, prefixUser+a.AuthorID, &u); err != nil {
					if err == ErrNotFound {
						continue
					}
					return err
				}
				summary = u.Summary()
				authors[a.AuthorID] = summary
			}
			page.Items = append(page.Items, domain.FeedItem{Article: a, Author: summary})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if page.HasMore && len(page.Items) > 0 {
		page.NextCursor = encodeCursor(order, page.Items[len(page.Items)-1].Article)
	}
	return page, nil
}

// CountArticles returns how many stored articles satisfy the query filters,
// ignoring cursor and order.
func (s *Store) CountArticles(ctx context.Context, q FeedQuery) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixArticle, func(key string, a *domain.Article) (bool, error) {
			if strings.HasPrefix(key, prefixArticle+"idx:") {
				return true, nil
			}
			if q.matches(a) {
				count++
			}
			return true, nil
		})
	})
	return count, err
}
