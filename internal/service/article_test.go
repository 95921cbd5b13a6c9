package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
)

func TestArticleService_ChallengeBindsToPrompt(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	author := e.signup(t, "writer")

	// No prompt rotated in yet.
	_, err := e.articles.Create(ctx, author.ID, CreateArticleRequest{
		Kind:   domain.KindChallenge,
		Title:  "first try",
		Body:   "body",
		Public: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	prompt := e.activatePrompt(t, "가을 산책")

	a, err := e.articles.Create(ctx, author.ID, CreateArticleRequest{
		Kind:   domain.KindChallenge,
		Title:  "walked through the park",
		Body:   "body",
		Public: true,
	})
	require.NoError(t, err)
	assert.Equal(t, prompt.ID, a.PromptID)
	assert.Equal(t, e.store.Today(), a.PromptDay)

	u, err := e.store.Users.Get(ctx, author.ID)
	require.NoError(t, err)
	assert.True(t, u.DailyDone)
	assert.Equal(t, 1, u.StampCount)
}

func TestArticleService_RelayRequiresMembership(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	host := e.signup(t, "host")
	outsider := e.signup(t, "outsider")

	relay, err := e.relays.Create(ctx, host.ID, CreateRelayRequest{Title: "round robin", Capacity: 5})
	require.NoError(t, err)

	_, err = e.articles.Create(ctx, outsider.ID, CreateArticleRequest{
		Kind:    domain.KindRelay,
		Title:   "sneaking in",
		Body:    "body",
		RelayID: relay.ID,
		Public:  true,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = e.relays.Join(ctx, relay.ID, outsider.ID)
	require.NoError(t, err)

	a, err := e.articles.Create(ctx, outsider.ID, CreateArticleRequest{
		Kind:    domain.KindRelay,
		Title:   "my turn",
		Body:    "body",
		RelayID: relay.ID,
		Public:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, relay.ID, a.RelayID)

	got, err := e.relays.Get(ctx, relay.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ArticleCount)
}

func TestArticleService_VisibilityRules(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	author := e.signup(t, "writer")
	reader := e.signup(t, "reader")

	a, err := e.articles.Create(ctx, author.ID, CreateArticleRequest{
		Kind:  domain.KindFree,
		Title: "private draft",
		Body:  "body",
		Draft: true,
	})
	require.NoError(t, err)

	// The author sees their own draft; others get a 404, not a 403.
	_, err = e.articles.Get(ctx, author.ID, a.ID)
	assert.NoError(t, err)
	_, err = e.articles.Get(ctx, reader.ID, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = e.articles.Get(ctx, "", a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestArticleService_OnlyAuthorMutates(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	author := e.signup(t, "writer")
	other := e.signup(t, "other")
	a := e.post(t, author.ID, "mine")

	_, err := e.articles.Update(ctx, other.ID, a.ID, UpdateArticleRequest{
		Title: "hijacked", Body: "body", Public: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = e.articles.Delete(ctx, other.ID, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = e.articles.Update(ctx, author.ID, a.ID, UpdateArticleRequest{
		Title: "edited", Body: "new body", Public: true,
	})
	assert.NoError(t, err)

	assert.NoError(t, e.articles.Delete(ctx, author.ID, a.ID))
}

func TestArticleService_CategoryOwnership(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	author := e.signup(t, "writer")
	other := e.signup(t, "other")

	cat, err := e.categories.Create(ctx, other.ID, CategoryRequest{Title: "not yours"})
	require.NoError(t, err)

	_, err = e.articles.Create(ctx, author.ID, CreateArticleRequest{
		Kind:       domain.KindFree,
		Title:      "misfiled",
		Body:       "body",
		CategoryID: cat.ID,
		Public:     true,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestArticleService_CommentModeration(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	author := e.signup(t, "writer")
	commenter := e.signup(t, "commenter")
	stranger := e.signup(t, "stranger")
	a := e.post(t, author.ID, "discuss")

	c, err := e.articles.AddComment(ctx, commenter.ID, a.ID, CommentRequest{Body: "nice one"})
	require.NoError(t, err)

	// A stranger cannot delete someone else's comment.
	err = e.articles.DeleteComment(ctx, stranger.ID, a.ID, c.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// The article author can moderate comments on their article.
	assert.NoError(t, e.articles.DeleteComment(ctx, author.ID, a.ID, c.ID))

	// And the comment author can delete their own.
	c2, err := e.articles.AddComment(ctx, commenter.ID, a.ID, CommentRequest{Body: "again"})
	require.NoError(t, err)
	assert.NoError(t, e.articles.DeleteComment(ctx, commenter.ID, a.ID, c2.ID))
}

func TestArticleService_ScrapIntoOwnCategory(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	author := e.signup(t, "writer")
	reader := e.signup(t, "reader")
	a := e.post(t, author.ID, "keeper")

	cat, err := e.categories.Create(ctx, reader.ID, CategoryRequest{Title: "favorites"})
	require.NoError(t, err)

	require.NoError(t, e.articles.Scrap(ctx, reader.ID, a.ID, ScrapRequest{CategoryID: cat.ID}))

	items, err := e.users.Scraps(ctx, reader.ID, cat.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].Article.ID)

	// Someone else's category is rejected.
	err = e.articles.Scrap(ctx, author.ID, a.ID, ScrapRequest{CategoryID: cat.ID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
