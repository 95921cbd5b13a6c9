package store

import (
	"context"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
)

// categoryTitleKey is the uniqueness index key for (owner, title). It uses
// the same key layout as the Entity index on Categories, so reads through
// either path agree.
func categoryTitleKey(ownerID, title string) string {
	return prefixCategory + "idx:owner_title:" + ownerID + "\x00" + title
}

// CreateCategory stores a new category and appends it to the owner's
// category list in one transaction. Titles are unique per owner.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		taken, err := hasKey(txn, categoryTitleKey(c.OwnerID, c.Title))
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("category title already in use")
		}

		var owner domain.User
		if err := getDoc(txn, prefixUser+c.OwnerID, &owner); err != nil {
			return err
		}

		if err := putDoc(txn, prefixCategory+c.ID, c); err != nil {
			return err
		}
		if err := txn.Set([]byte(categoryTitleKey(c.OwnerID, c.Title)), []byte(c.ID)); err != nil {
			return err
		}

		owner.CategoryIDs = append(owner.CategoryIDs, c.ID)
		return putDoc(txn, prefixUser+c.OwnerID, &owner)
	})
}

// RenameCategory changes a category's title, keeping the per-owner
// uniqueness index in step.
func (s *Store) RenameCategory(ctx context.Context, id, title string) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cat domain.Category
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getDoc(txn, prefixCategory+id, &cat); err != nil {
			return err
		}
		if cat.Title == title {
			return nil
		}

		taken, err := hasKey(txn, categoryTitleKey(cat.OwnerID, title))
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("category title already in use")
		}

		if err := deleteKey(txn, categoryTitleKey(cat.OwnerID, cat.Title)); err != nil {
			return err
		}
		cat.Title = title
		if err := txn.Set([]byte(categoryTitleKey(cat.OwnerID, title)), []byte(id)); err != nil {
			return err
		}
		return putDoc(txn, prefixCategory+id, &cat)
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory removes a category. References on articles and scraps are
// nulled, never cascaded: the articles and scraps survive, uncategorized.
// The owner's category list is updated in the same transaction.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var cat domain.Category
		if err := getDoc(txn, prefixCategory+id, &cat); err != nil {
			return err
		}

		var orphanedArticles []*domain.Article
		err := scanPrefix(txn, prefixArticle, func(key string, a *domain.Article) (bool, error) {
			if strings.HasPrefix(key, prefixArticle+"idx:") {
				return true, nil
			}
			if a.CategoryID == id {
				orphanedArticles = append(orphanedArticles, a)
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		for _, a := range orphanedArticles {
			a.CategoryID = ""
			if err := putDoc(txn, prefixArticle+a.ID, a); err != nil {
				return err
			}
		}

		var orphanedScraps []*domain.Scrap
		err = scanPrefix(txn, prefixScrap, func(key string, sc *domain.Scrap) (bool, error) {
			if sc.CategoryID == id {
				orphanedScraps = append(orphanedScraps, sc)
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		for _, sc := range orphanedScraps {
			sc.CategoryID = ""
			if err := putDoc(txn, prefixScrap+sc.ArticleID+":"+sc.UserID, sc); err != nil {
				return err
			}
			if err := putDoc(txn, prefixScrapBy+sc.UserID+":"+sc.ArticleID, sc); err != nil {
				return err
			}
		}

		var owner domain.User
		err = getDoc(txn, prefixUser+cat.OwnerID, &owner)
		if err == nil {
			if idx := slices.Index(owner.CategoryIDs, id); idx >= 0 {
				owner.CategoryIDs = slices.Delete(owner.CategoryIDs, idx, idx+1)
				if err := putDoc(txn, prefixUser+cat.OwnerID, &owner); err != nil {
					return err
				}
			}
		} else if err != ErrNotFound {
			return err
		}

		if err := deleteKey(txn, categoryTitleKey(cat.OwnerID, cat.Title)); err != nil {
			return err
		}
		return deleteKey(txn, prefixCategory+id)
	})
}

// CategoriesOf returns the user's categories in their display order.
func (s *Store) CategoriesOf(ctx context.Context, userID string) ([]*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	cats := []*domain.Category{}

	err := s.db.View(func(txn *badger.Txn) error {
		if err := getDoc(txn, prefixUser+userID, &user); err != nil {
			return err
		}
		for _, id := range user.CategoryIDs {
			var cat domain.Category
			err := getDoc(txn, prefixCategory+id, &cat)
			if err == ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			cats = append(cats, &cat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}
