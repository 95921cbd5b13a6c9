package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})
	s, err := New(t.TempDir(), time.UTC, log)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, id string) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:        id,
		Email:     id + "@example.com",
		Nickname:  "nick-" + id,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.Users.Create(context.Background(), id, u))
	return u
}

// seedArticle writes a public submitted article. Test IDs are zero-padded so
// lexicographic order matches the numbering, like production IDs.
func seedArticle(t *testing.T, s *Store, id, authorID string, mutate ...func(*domain.Article)) *domain.Article {
	t.Helper()

	a := &domain.Article{
		ID:        id,
		AuthorID:  authorID,
		Kind:      domain.KindFree,
		State:     domain.StateSubmitted,
		Title:     "title " + id,
		Body:      "body " + id,
		Public:    true,
		CreatedAt: time.Now(),
	}
	for _, m := range mutate {
		m(a)
	}
	require.NoError(t, s.CreateArticle(context.Background(), a))
	return a
}

func getUser(t *testing.T, s *Store, id string) *domain.User {
	t.Helper()
	u, err := s.Users.Get(context.Background(), id)
	require.NoError(t, err)
	return u
}

func getArticle(t *testing.T, s *Store, id string) *domain.Article {
	t.Helper()
	a, err := s.Articles.Get(context.Background(), id)
	require.NoError(t, err)
	return a
}

func TestCreateArticle_MaintainsCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	cat := &domain.Category{ID: "cat-1", OwnerID: "user-a", Title: "essays"}
	require.NoError(t, s.CreateCategory(ctx, cat))

	seedArticle(t, s, "article-001", "user-a", func(a *domain.Article) {
		a.CategoryID = "cat-1"
	})

	assert.Equal(t, 1, getUser(t, s, "user-a").ArticleCount)
	got, err := s.Categories.Get(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ArticleCount)

	// Drafts and private articles contribute nothing.
	seedArticle(t, s, "article-002", "user-a", func(a *domain.Article) {
		a.State = domain.StateDraft
	})
	seedArticle(t, s, "article-003", "user-a", func(a *domain.Article) {
		a.Public = false
	})
	assert.Equal(t, 1, getUser(t, s, "user-a").ArticleCount)
}

func TestCreateArticle_ChallengeStampsAuthor(t *testing.T) {
	s := newTestStore(t)

	seedUser(t, s, "user-a")
	today := s.Today()

	seedArticle(t, s, "article-001", "user-a", func(a *domain.Article) {
		a.Kind = domain.KindChallenge
		a.PromptID = "prompt-1"
		a.PromptDay = today
	})

	u := getUser(t, s, "user-a")
	assert.Equal(t, 1, u.StampCount)
	assert.True(t, u.DailyDone)
	assert.True(t, u.HasStamp(today))

	// A second challenge on the same day does not double-stamp.
	seedArticle(t, s, "article-002", "user-a", func(a *domain.Article) {
		a.Kind = domain.KindChallenge
		a.PromptID = "prompt-1"
		a.PromptDay = today
	})
	assert.Equal(t, 1, getUser(t, s, "user-a").StampCount)
}

func TestUpdateArticle_VisibilityTransitions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	a := seedArticle(t, s, "article-001", "user-a")
	assert.Equal(t, 1, getUser(t, s, "user-a").ArticleCount)

	a.Public = false
	require.NoError(t, s.UpdateArticle(ctx, a))
	assert.Equal(t, 0, getUser(t, s, "user-a").ArticleCount)

	a.Public = true
	require.NoError(t, s.UpdateArticle(ctx, a))
	assert.Equal(t, 1, getUser(t, s, "user-a").ArticleCount)
}

func TestUpdateArticle_CategoryMove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-1", OwnerID: "user-a", Title: "one"}))
	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-2", OwnerID: "user-a", Title: "two"}))

	a := seedArticle(t, s, "article-001", "user-a", func(a *domain.Article) {
		a.CategoryID = "cat-1"
	})

	// Same category: a no-op for the counters.
	require.NoError(t, s.UpdateArticle(ctx, a))
	cat1, err := s.Categories.Get(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cat1.ArticleCount)

	a.CategoryID = "cat-2"
	require.NoError(t, s.UpdateArticle(ctx, a))

	cat1, err = s.Categories.Get(ctx, "cat-1")
	require.NoError(t, err)
	cat2, err := s.Categories.Get(ctx, "cat-2")
	require.NoError(t, err)
	assert.Equal(t, 0, cat1.ArticleCount)
	assert.Equal(t, 1, cat2.ArticleCount)
}

func TestUpdateArticle_PreservesAggregates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")
	a := seedArticle(t, s, "article-001", "user-a")
	require.NoError(t, s.LikeArticle(ctx, a.ID, "user-b"))

	// A stale in-memory copy cannot clobber the stored like count.
	a.LikeCount = 0
	a.Title = "edited"
	require.NoError(t, s.UpdateArticle(ctx, a))
	assert.Equal(t, 1, getArticle(t, s, a.ID).LikeCount)
}

func TestDeleteArticle_CascadesAndRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")
	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-1", OwnerID: "user-b", Title: "keep"}))

	today := s.Today()
	a := seedArticle(t, s, "article-001", "user-a", func(a *domain.Article) {
		a.Kind = domain.KindChallenge
		a.PromptID = "prompt-1"
		a.PromptDay = today
	})

	require.NoError(t, s.AddComment(ctx, &domain.Comment{ID: "comment-001", ArticleID: a.ID, AuthorID: "user-b", Body: "hi"}))
	require.NoError(t, s.LikeArticle(ctx, a.ID, "user-b"))
	require.NoError(t, s.ScrapArticle(ctx, &domain.Scrap{ArticleID: a.ID, UserID: "user-b", CategoryID: "cat-1", CreatedAt: time.Now()}))

	require.NoError(t, s.DeleteArticle(ctx, a.ID))

	_, err := s.Articles.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	u := getUser(t, s, "user-a")
	assert.Equal(t, 0, u.ArticleCount)
	assert.Equal(t, 0, u.StampCount)
	assert.False(t, u.DailyDone)

	comments, err := s.Comments(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	liked, err := s.HasLiked(ctx, a.ID, "user-b")
	require.NoError(t, err)
	assert.False(t, liked)

	cat, err := s.Categories.Get(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 0, cat.ScrapCount)

	scraps, err := s.ScrappedArticles(ctx, "user-b", "")
	require.NoError(t, err)
	assert.Empty(t, scraps)
}

func TestDeleteArticle_KeepsStampWhenAnotherChallengeRemains(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	today := s.Today()

	for _, id := range []string{"article-001", "article-002"} {
		seedArticle(t, s, id, "user-a", func(a *domain.Article) {
			a.Kind = domain.KindChallenge
			a.PromptID = "prompt-1"
			a.PromptDay = today
		})
	}

	require.NoError(t, s.DeleteArticle(ctx, "article-001"))
	u := getUser(t, s, "user-a")
	assert.Equal(t, 1, u.StampCount)
	assert.True(t, u.DailyDone)

	require.NoError(t, s.DeleteArticle(ctx, "article-002"))
	u = getUser(t, s, "user-a")
	assert.Equal(t, 0, u.StampCount)
	assert.False(t, u.DailyDone)
}

func TestLikeUnlike(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")
	a := seedArticle(t, s, "article-001", "user-a")

	require.NoError(t, s.LikeArticle(ctx, a.ID, "user-b"))
	assert.Equal(t, 1, getArticle(t, s, a.ID).LikeCount)

	err := s.LikeArticle(ctx, a.ID, "user-b")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 1, getArticle(t, s, a.ID).LikeCount)

	require.NoError(t, s.UnlikeArticle(ctx, a.ID, "user-b"))
	assert.Equal(t, 0, getArticle(t, s, a.ID).LikeCount)

	err = s.UnlikeArticle(ctx, a.ID, "user-b")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestScrapUnscrap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")
	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-1", OwnerID: "user-b", Title: "saved"}))
	a := seedArticle(t, s, "article-001", "user-a")

	sc := &domain.Scrap{ArticleID: a.ID, UserID: "user-b", CategoryID: "cat-1", CreatedAt: time.Now()}
	require.NoError(t, s.ScrapArticle(ctx, sc))

	assert.Equal(t, 1, getArticle(t, s, a.ID).ScrapCount)
	cat, err := s.Categories.Get(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cat.ScrapCount)

	err = s.ScrapArticle(ctx, sc)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	items, err := s.ScrappedArticles(ctx, "user-b", "cat-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].Article.ID)

	require.NoError(t, s.UnscrapArticle(ctx, a.ID, "user-b"))
	assert.Equal(t, 0, getArticle(t, s, a.ID).ScrapCount)
	cat, err = s.Categories.Get(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 0, cat.ScrapCount)
}

func TestComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")
	a := seedArticle(t, s, "article-001", "user-a")

	for i := 1; i <= 3; i++ {
		c := &domain.Comment{
			ID:        fmt.Sprintf("comment-%03d", i),
			ArticleID: a.ID,
			AuthorID:  "user-b",
			Body:      fmt.Sprintf("comment %d", i),
			CreatedAt: time.Now(),
		}
		require.NoError(t, s.AddComment(ctx, c))
	}
	assert.Equal(t, 3, getArticle(t, s, a.ID).CommentCount)

	comments, err := s.Comments(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "comment-001", comments[0].ID)
	assert.Equal(t, "comment-003", comments[2].ID)

	require.NoError(t, s.DeleteComment(ctx, a.ID, "comment-002"))
	assert.Equal(t, 2, getArticle(t, s, a.ID).CommentCount)

	err = s.DeleteComment(ctx, a.ID, "comment-002")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")

	require.NoError(t, s.Subscribe(ctx, "user-a", "user-b"))
	assert.Equal(t, 1, getUser(t, s, "user-b").FollowerCount)
	assert.True(t, getUser(t, s, "user-a").IsSubscribedTo("user-b"))

	err := s.Subscribe(ctx, "user-a", "user-b")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 1, getUser(t, s, "user-b").FollowerCount)

	err = s.Subscribe(ctx, "user-a", "user-a")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, s.Unsubscribe(ctx, "user-a", "user-b"))
	assert.Equal(t, 0, getUser(t, s, "user-b").FollowerCount)

	err = s.Unsubscribe(ctx, "user-a", "user-b")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")

	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-1", OwnerID: "user-a", Title: "daily"}))

	err := s.CreateCategory(ctx, &domain.Category{ID: "cat-2", OwnerID: "user-a", Title: "daily"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Same title under a different owner is fine.
	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-3", OwnerID: "user-b", Title: "daily"}))

	assert.Contains(t, getUser(t, s, "user-a").CategoryIDs, "cat-1")

	a := seedArticle(t, s, "article-001", "user-a", func(a *domain.Article) {
		a.CategoryID = "cat-1"
	})
	require.NoError(t, s.ScrapArticle(ctx, &domain.Scrap{ArticleID: a.ID, UserID: "user-b", CategoryID: "cat-3", CreatedAt: time.Now()}))

	require.NoError(t, s.DeleteCategory(ctx, "cat-1"))

	// References are nulled, never cascaded.
	assert.Empty(t, getArticle(t, s, a.ID).CategoryID)
	assert.NotContains(t, getUser(t, s, "user-a").CategoryIDs, "cat-1")

	// The title is free again.
	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-4", OwnerID: "user-a", Title: "daily"}))
}

func TestDeleteCategory_NullsArticleAndScrapReferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")

	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-1", OwnerID: "user-a", Title: "daily"}))

	articleIDs := []string{"article-001", "article-002", "article-003"}
	for _, id := range articleIDs {
		seedArticle(t, s, id, "user-a", func(a *domain.Article) {
			a.CategoryID = "cat-1"
		})
	}
	for _, id := range articleIDs[:2] {
		require.NoError(t, s.ScrapArticle(ctx, &domain.Scrap{
			ArticleID:  id,
			UserID:     "user-b",
			CategoryID: "cat-1",
			CreatedAt:  time.Now(),
		}))
	}

	require.NoError(t, s.DeleteCategory(ctx, "cat-1"))

	_, err := s.Categories.Get(ctx, "cat-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// All five references are nulled, nothing is cascaded.
	for _, id := range articleIDs {
		assert.Empty(t, getArticle(t, s, id).CategoryID)
	}

	filed, err := s.ScrappedArticles(ctx, "user-b", "cat-1")
	require.NoError(t, err)
	assert.Empty(t, filed)

	all, err := s.ScrappedArticles(ctx, "user-b", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRenameCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-1", OwnerID: "user-a", Title: "old"}))
	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-2", OwnerID: "user-a", Title: "taken"}))

	_, err := s.RenameCategory(ctx, "cat-1", "taken")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	cat, err := s.RenameCategory(ctx, "cat-1", "new")
	require.NoError(t, err)
	assert.Equal(t, "new", cat.Title)

	// Old title is released.
	require.NoError(t, s.CreateCategory(ctx, &domain.Category{ID: "cat-3", OwnerID: "user-a", Title: "old"}))
}

func TestPromptRotation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Prompts.Create(ctx, "prompt-1", &domain.Prompt{ID: "prompt-1", Content: "가을 산책"}))
	require.NoError(t, s.Prompts.Create(ctx, "prompt-2", &domain.Prompt{ID: "prompt-2", Content: "비 오는 날"}))

	day1, fresh, err := s.ActivatePromptForDay(ctx, "2026-09-01")
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.True(t, day1.Used)
	assert.Equal(t, "2026-09-01", day1.ActiveDay)

	// Re-running the same day is idempotent.
	again, fresh, err := s.ActivatePromptForDay(ctx, "2026-09-01")
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, day1.ID, again.ID)

	day2, fresh, err := s.ActivatePromptForDay(ctx, "2026-09-02")
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.NotEqual(t, day1.ID, day2.ID)

	// Pool exhausted.
	_, _, err = s.ActivatePromptForDay(ctx, "2026-09-03")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Lookup by day round-trips.
	found, err := s.PromptForDay(ctx, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, day1.ID, found.ID)

	_, err = s.PromptForDay(ctx, "2026-09-03")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	remaining, err := s.UnusedPromptCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestResetDailyFlags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	seedUser(t, s, "user-b")

	seedArticle(t, s, "article-001", "user-a", func(a *domain.Article) {
		a.Kind = domain.KindChallenge
		a.PromptID = "prompt-1"
		a.PromptDay = s.Today()
	})
	assert.True(t, getUser(t, s, "user-a").DailyDone)

	reset, err := s.ResetDailyFlags(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reset)
	assert.False(t, getUser(t, s, "user-a").DailyDone)

	// Stamps survive the nightly reset.
	assert.Equal(t, 1, getUser(t, s, "user-a").StampCount)
}

func TestRelayMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"user-host", "user-a", "user-b"} {
		seedUser(t, s, id)
	}

	relay := &domain.Relay{
		ID:        "relay-1",
		Title:     "round robin",
		HostID:    "user-host",
		Capacity:  2,
		CreatedAt: time.Now(),
	}
	relay.AddMember("user-host")
	require.NoError(t, s.Relays.Create(ctx, relay.ID, relay))

	got, err := s.JoinRelay(ctx, "relay-1", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.MemberCount)

	_, err = s.JoinRelay(ctx, "relay-1", "user-b")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = s.JoinRelay(ctx, "relay-1", "user-a")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = s.LeaveRelay(ctx, "relay-1", "user-host")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, s.LeaveRelay(ctx, "relay-1", "user-a"))
	err = s.LeaveRelay(ctx, "relay-1", "user-a")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteRelay_NullsArticleReferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")
	relay := &domain.Relay{ID: "relay-1", Title: "room", HostID: "user-a", CreatedAt: time.Now()}
	relay.AddMember("user-a")
	require.NoError(t, s.Relays.Create(ctx, relay.ID, relay))

	a := seedArticle(t, s, "article-001", "user-a", func(a *domain.Article) {
		a.Kind = domain.KindRelay
		a.RelayID = "relay-1"
	})

	require.NoError(t, s.DeleteRelay(ctx, "relay-1"))

	_, err := s.Relays.Get(ctx, "relay-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, getArticle(t, s, a.ID).RelayID)
}

func TestSearchHistoryPersistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")

	for i := range domain.MaxSearchTerms + 2 {
		require.NoError(t, s.RecordSearch(ctx, "user-a", fmt.Sprintf("term-%02d", i)))
	}

	h, err := s.SearchHistory(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, h.Terms, domain.MaxSearchTerms)
	assert.Equal(t, fmt.Sprintf("term-%02d", domain.MaxSearchTerms+1), h.Terms[0])

	require.NoError(t, s.ClearSearchHistory(ctx, "user-a"))
	h, err = s.SearchHistory(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, h.Terms)
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	live := &domain.Session{ID: "session-1", UserID: "user-a", RefreshTokenHash: "hash-1", ExpiresAt: time.Now().Add(time.Hour)}
	dead := &domain.Session{ID: "session-2", UserID: "user-a", RefreshTokenHash: "hash-2", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, s.Sessions.Create(ctx, live.ID, live))
	require.NoError(t, s.Sessions.Create(ctx, dead.ID, dead))

	dropped, err := s.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	_, err = s.Sessions.Get(ctx, "session-1")
	assert.NoError(t, err)
	_, err = s.Sessions.Get(ctx, "session-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserUniqueIndexes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "user-a")

	dup := &domain.User{ID: "user-x", Email: "USER-A@example.com", Nickname: "other"}
	err := s.Users.Create(ctx, dup.ID, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	dup = &domain.User{ID: "user-y", Email: "fresh@example.com", Nickname: "nick-user-a"}
	err = s.Users.Create(ctx, dup.ID, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Email lookup is case-insensitive.
	found, err := s.Users.GetByIndex(ctx, "email", "User-A@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-a", found.ID)
}
