package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
)

func TestFeed_LatestPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	for i := 1; i <= 20; i++ {
		seedArticle(t, s, fmt.Sprintf("article-%03d", i), "user-a")
	}

	page1, err := s.Feed(ctx, FeedQuery{Order: OrderLatest})
	require.NoError(t, err)
	require.Len(t, page1.Items, PageSize)
	assert.True(t, page1.HasMore)
	assert.Equal(t, "article-020", page1.Items[0].Article.ID)
	assert.Equal(t, "article-006", page1.Items[PageSize-1].Article.ID)
	assert.Equal(t, "article-006", page1.NextCursor)

	page2, err := s.Feed(ctx, FeedQuery{Order: OrderLatest, Cursor: page1.NextCursor})
	require.NoError(t, err)
	require.Len(t, page2.Items, 5)
	assert.False(t, page2.HasMore)
	assert.Empty(t, page2.NextCursor)
	assert.Equal(t, "article-005", page2.Items[0].Article.ID)
	assert.Equal(t, "article-001", page2.Items[4].Article.ID)
}

func TestFeed_PopularOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	likers := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("user-liker-%d", i)
		seedUser(t, s, id)
		likers = append(likers, id)
	}

	// article-001: 3 likes, article-002: 1 like, article-003: 1 like, article-004: 0.
	for i := 1; i <= 4; i++ {
		seedArticle(t, s, fmt.Sprintf("article-%03d", i), "user-a")
	}
	for _, liker := range likers[:3] {
		require.NoError(t, s.LikeArticle(ctx, "article-001", liker))
	}
	require.NoError(t, s.LikeArticle(ctx, "article-002", likers[0]))
	require.NoError(t, s.LikeArticle(ctx, "article-003", likers[0]))

	page, err := s.Feed(ctx, FeedQuery{Order: OrderPopular})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)

	ids := make([]string, len(page.Items))
	for i, item := range page.Items {
		ids[i] = item.Article.ID
	}
	// Ties break by descending ID.
	assert.Equal(t, []string{"article-001", "article-003", "article-002", "article-004"}, ids)
}

func TestFeed_PopularCursorNeverDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	for i := 1; i <= 5; i++ {
		seedUser(t, s, fmt.Sprintf("user-liker-%d", i))
	}

	for i := 1; i <= PageSize+5; i++ {
		seedArticle(t, s, fmt.Sprintf("article-%03d", i), "user-a")
	}
	// Give the first few articles distinct like counts.
	for i := 1; i <= 5; i++ {
		for j := 1; j <= i; j++ {
			require.NoError(t, s.LikeArticle(ctx, fmt.Sprintf("article-%03d", i), fmt.Sprintf("user-liker-%d", j)))
		}
	}

	page1, err := s.Feed(ctx, FeedQuery{Order: OrderPopular})
	require.NoError(t, err)
	require.Len(t, page1.Items, PageSize)
	require.True(t, page1.HasMore)

	seen := make(map[string]bool)
	for _, item := range page1.Items {
		seen[item.Article.ID] = true
	}

	// An article already served gains a like between page fetches. It must
	// not reappear on the next page.
	require.NoError(t, s.LikeArticle(ctx, page1.Items[PageSize-1].Article.ID, "user-liker-5"))

	page2, err := s.Feed(ctx, FeedQuery{Order: OrderPopular, Cursor: page1.NextCursor})
	require.NoError(t, err)
	for _, item := range page2.Items {
		assert.False(t, seen[item.Article.ID], "article %s served twice", item.Article.ID)
	}
}

func TestFeed_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")

	seedArticle(t, s, "article-001", "user-a", func(a *domain.Article) {
		a.Tags = []string{"autumn", "walk"}
	})
	seedArticle(t, s, "article-002", "user-b", func(a *domain.Article) {
		a.Tags = []string{"autumn"}
		a.Kind = domain.KindChallenge
		a.PromptID = "prompt-1"
		a.PromptDay = s.Today()
	})
	seedArticle(t, s, "article-003", "user-a", func(a *domain.Article) {
		a.State = domain.StateDraft
	})

	page, err := s.Feed(ctx, FeedQuery{Tags: []string{"autumn"}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = s.Feed(ctx, FeedQuery{Tags: []string{"autumn", "walk"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "article-001", page.Items[0].Article.ID)

	page, err = s.Feed(ctx, FeedQuery{Kind: domain.KindChallenge})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "article-002", page.Items[0].Article.ID)

	page, err = s.Feed(ctx, FeedQuery{AuthorIDs: []string{"user-b"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "user-b", page.Items[0].Article.AuthorID)

	// Drafts never surface without IncludeHidden.
	page, err = s.Feed(ctx, FeedQuery{AuthorIDs: []string{"user-a"}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = s.Feed(ctx, FeedQuery{AuthorIDs: []string{"user-a"}, IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = s.Feed(ctx, FeedQuery{MatchIDs: map[string]bool{"article-002": true}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "article-002", page.Items[0].Article.ID)
}

func TestFeed_EmbedsAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedArticle(t, s, "article-001", "user-a")

	page, err := s.Feed(ctx, FeedQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "nick-user-a", page.Items[0].Author.Nickname)
	assert.Equal(t, "user-a", page.Items[0].Author.ID)
}

func TestParseCursor(t *testing.T) {
	c, err := parseCursor(OrderLatest, "article-010")
	require.NoError(t, err)
	assert.Equal(t, "article-010", c.id)

	c, err = parseCursor(OrderPopular, "article-010_7")
	require.NoError(t, err)
	assert.Equal(t, "article-010", c.id)
	assert.Equal(t, 7, c.likes)

	_, err = parseCursor(OrderPopular, "article-010")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = parseCursor(OrderPopular, "article-010_x")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	c, err = parseCursor(OrderLatest, "")
	require.NoError(t, err)
	assert.Nil(t, c)
}
