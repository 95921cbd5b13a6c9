package store

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
)

// Comments, likes, and scraps are keyed under their article so a prefix scan
// lists them and article deletion can cascade them away. Likes and scraps
// additionally key on the user, making "at most one per user per article" a
// property of the keyspace rather than a check that can race.

// AddComment stores a comment and bumps the article's comment count.
func (s *Store) AddComment(ctx context.Context, c *domain.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var article domain.Article
		if err := getDoc(txn, prefixArticle+c.ArticleID, &article); err != nil {
			return err
		}

		if err := putDoc(txn, prefixComment+c.ArticleID+":"+c.ID, c); err != nil {
			return err
		}

		article.CommentCount++
		return putDoc(txn, prefixArticle+c.ArticleID, &article)
	})
}

// GetComment fetches a single comment.
func (s *Store) GetComment(ctx context.Context, articleID, commentID string) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var c domain.Comment
	err := s.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, prefixComment+articleID+":"+commentID, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment and decrements the article's count.
func (s *Store) DeleteComment(ctx context.Context, articleID, commentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := prefixComment + articleID + ":" + commentID
		exists, err := hasKey(txn, key)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("comment not found")
		}
		if err := deleteKey(txn, key); err != nil {
			return err
		}

		var article domain.Article
		err = getDoc(txn, prefixArticle+articleID, &article)
		if err == ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if article.CommentCount > 0 {
			article.CommentCount--
		}
		return putDoc(txn, prefixArticle+articleID, &article)
	})
}

// Comments lists an article's comments oldest first. Comment IDs are
// time-sortable, so key order is chronological.
func (s *Store) Comments(ctx context.Context, articleID string) ([]*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	comments := []*domain.Comment{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixComment+articleID+":", func(_ string, c *domain.Comment) (bool, error) {
			comments = append(comments, c)
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// LikeArticle records a like and bumps the article's (and, for relay
// articles, the relay's) like count. A second like from the same user
// returns a conflict.
func (s *Store) LikeArticle(ctx context.Context, articleID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var article domain.Article
		if err := getDoc(txn, prefixArticle+articleID, &article); err != nil {
			return err
		}

		key := prefixLike + articleID + ":" + userID
		exists, err := hasKey(txn, key)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Conflict("already liked")
		}

		like := domain.Like{ArticleID: articleID, UserID: userID, CreatedAt: time.Now()}
		if err := putDoc(txn, key, &like); err != nil {
			return err
		}

		article.LikeCount++
		if err := putDoc(txn, prefixArticle+articleID, &article); err != nil {
			return err
		}

		return s.adjustRelayLikes(txn, article.RelayID, +1)
	})
}

// UnlikeArticle removes a like and reverses the counters. Returns
// ErrNotFound when the user never liked the article.
func (s *Store) UnlikeArticle(ctx context.Context, articleID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := prefixLike + articleID + ":" + userID
		exists, err := hasKey(txn, key)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("like not found")
		}
		if err := deleteKey(txn, key); err != nil {
			return err
		}

		var article domain.Article
		err = getDoc(txn, prefixArticle+articleID, &article)
		if err == ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if article.LikeCount > 0 {
			article.LikeCount--
		}
		if err := putDoc(txn, prefixArticle+articleID, &article); err != nil {
			return err
		}

		return s.adjustRelayLikes(txn, article.RelayID, -1)
	})
}

// HasLiked reports whether the user liked the article.
func (s *Store) HasLiked(ctx context.Context, articleID, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	liked := false
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		liked, err = hasKey(txn, prefixLike+articleID+":"+userID)
		return err
	})
	return liked, err
}

func (s *Store) adjustRelayLikes(txn *badger.Txn, relayID string, delta int) error {
	if relayID == "" {
		return nil
	}
	var relay domain.Relay
	err := getDoc(txn, prefixRelay+relayID, &relay)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	relay.LikeCount += delta
	if relay.LikeCount < 0 {
		relay.LikeCount = 0
	}
	return putDoc(txn, prefixRelay+relayID, &relay)
}

// ScrapArticle bookmarks an article for a user, optionally filing it under
// one of the user's categories. A second scrap of the same article returns
// a conflict.
func (s *Store) ScrapArticle(ctx context.Context, sc *domain.Scrap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var article domain.Article
		if err := getDoc(txn, prefixArticle+sc.ArticleID, &article); err != nil {
			return err
		}

		key := prefixScrap + sc.ArticleID + ":" + sc.UserID
		exists, err := hasKey(txn, key)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Conflict("already scrapped")
		}

		if err := putDoc(txn, key, sc); err != nil {
			return err
		}
		if err := putDoc(txn, prefixScrapBy+sc.UserID+":"+sc.ArticleID, sc); err != nil {
			return err
		}

		article.ScrapCount++
		if err := putDoc(txn, prefixArticle+sc.ArticleID, &article); err != nil {
			return err
		}

		return s.adjustCategoryScraps(txn, sc.CategoryID, +1)
	})
}

// UnscrapArticle removes a bookmark and reverses the counters.
func (s *Store) UnscrapArticle(ctx context.Context, articleID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := prefixScrap + articleID + ":" + userID

		var sc domain.Scrap
		if err := getDoc(txn, key, &sc); err != nil {
			return err
		}
		if err := deleteKey(txn, key); err != nil {
			return err
		}
		if err := deleteKey(txn, prefixScrapBy+userID+":"+articleID); err != nil {
			return err
		}

		var article domain.Article
		err := getDoc(txn, prefixArticle+articleID, &article)
		if err == nil {
			if article.ScrapCount > 0 {
				article.ScrapCount--
			}
			if err := putDoc(txn, prefixArticle+articleID, &article); err != nil {
				return err
			}
		} else if err != ErrNotFound {
			return err
		}

		return s.adjustCategoryScraps(txn, sc.CategoryID, -1)
	})
}

func (s *Store) adjustCategoryScraps(txn *badger.Txn, categoryID string, delta int) error {
	if categoryID == "" {
		return nil
	}
	var cat domain.Category
	err := getDoc(txn, prefixCategory+categoryID, &cat)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	cat.ScrapCount += delta
	if cat.ScrapCount < 0 {
		cat.ScrapCount = 0
	}
	return putDoc(txn, prefixCategory+categoryID, &cat)
}

// ScrappedArticles returns the articles a user has scrapped, newest scrap
// first, optionally restricted to one category.
func (s *Store) ScrappedArticles(ctx context.Context, userID, categoryID string) ([]domain.FeedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := []domain.FeedItem{}
	err := s.db.View(func(txn *badger.Txn) error {
		var scraps []*domain.Scrap
		err := scanPrefix(txn, prefixScrapBy+userID+":", func(_ string, sc *domain.Scrap) (bool, error) {
			if categoryID != "" && sc.CategoryID != categoryID {
				return true, nil
			}
			scraps = append(scraps, sc)
			return true, nil
		})
		if err != nil {
			return err
		}

		sort.Slice(scraps, func(i, j int) bool {
			return scraps[i].CreatedAt.After(scraps[j].CreatedAt)
		})

		authors := make(map[string]domain.AuthorSummary)
		for _, sc := range scraps {
			var a domain.Article
			err := getDoc(txn, prefixArticle+sc.ArticleID, &a)
			if err == ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}

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
			items = append(items, domain.FeedItem{Article: &a, Author: summary})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
