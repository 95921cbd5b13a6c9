package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
)

// PageSize is the fixed number of items per feed page.
const PageSize = 15

// FeedOrder selects the feed sort.
type FeedOrder string

// Feed orders. Latest sorts by descending ID, which for time-sortable IDs
// is descending creation order. Popular sorts by descending like count,
// breaking ties by descending ID.
const (
	OrderLatest  FeedOrder = "LATEST"
	OrderPopular FeedOrder = "POPULAR"
)

// Valid reports whether o is a known order.
func (o FeedOrder) Valid() bool {
	return o == OrderLatest || o == OrderPopular
}

// FeedPage is one page of feed results.
type FeedPage struct {
	Items      []domain.FeedItem
	NextCursor string
	HasMore    bool
}

// feedCursor is the decoded position of the last item on the previous page.
type feedCursor struct {
	id    string
	likes int
}

// parseCursor decodes a wire cursor. Latest cursors are the last item's ID;
// popular cursors are "<id>_<likeCount>". IDs never contain underscores, so
// splitting on the last one is unambiguous.
func parseCursor(order FeedOrder, raw string) (*feedCursor, error) {
	if raw == "" {
		return nil, nil
	}
	if order == OrderLatest {
		return &feedCursor{id: raw}, nil
	}

	sep := strings.LastIndex(raw, "_")
	if sep < 0 {
		return nil, apperrors.Validation("malformed cursor")
	}
	likes, err := strconv.Atoi(raw[sep+1:])
	if err != nil || likes < 0 {
		return nil, apperrors.Validation("malformed cursor")
	}
	return &feedCursor{id: raw[:sep], likes: likes}, nil
}

// encodeCursor produces the wire cursor pointing just past the given item.
func encodeCursor(order FeedOrder, a *domain.Article) string {
	if order == OrderPopular {
		return fmt.Sprintf("%s_%d", a.ID, a.LikeCount)
	}
	return a.ID
}

// afterCursor reports whether a sorts strictly after the cursor position,
// i.e. belongs on this or a later page. A nil cursor admits everything.
func afterCursor(order FeedOrder, a *domain.Article, c *feedCursor) bool {
	if c == nil {
		return true
	}
	if order == OrderPopular {
		if a.LikeCount != c.likes {
			return a.LikeCount < c.likes
		}
		return a.ID < c.id
	}
	return a.ID < c.id
}

// feedLess orders articles for the given feed sort, most prominent first.
func feedLess(order FeedOrder, a, b *domain.Article) bool {
	if order == OrderPopular {
		if a.LikeCount != b.LikeCount {
			return a.LikeCount > b.LikeCount
		}
		return a.ID > b.ID
	}
	return a.ID > b.ID
}
