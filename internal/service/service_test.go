package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-server/internal/auth"
	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/search"
	"github.com/inkwell-app/inkwell-server/internal/store"
	"github.com/inkwell-app/inkwell-server/internal/validation"
)

type testEnv struct {
	store  *store.Store
	index  *search.Index
	tokens *auth.TokenService

	auth       *AuthService
	articles   *ArticleService
	feed       *FeedService
	challenge  *ChallengeService
	categories *CategoryService
	users      *UserService
	relays     *RelayService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})

	st, err := store.New(t.TempDir(), time.UTC, log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	index, err := search.NewIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	st.SetSearchIndexer(index)

	keyHex, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	v := validation.New()

	return &testEnv{
		store:      st,
		index:      index,
		tokens:     tokens,
		auth:       NewAuthService(st, tokens, v, log),
		articles:   NewArticleService(st, v, log),
		feed:       NewFeedService(st, index, log),
		challenge:  NewChallengeService(st, log),
		categories: NewCategoryService(st, v, log),
		users:      NewUserService(st, log),
		relays:     NewRelayService(st, v, log),
	}
}

// signup registers a user and returns it.
func (e *testEnv) signup(t *testing.T, nickname string) *domain.User {
	t.Helper()

	resp, err := e.auth.Signup(context.Background(), SignupRequest{
		Email:    nickname + "@example.com",
		Nickname: nickname,
		Password: "a-long-enough-password",
	})
	require.NoError(t, err)
	return resp.User
}

// activatePrompt seeds one prompt and rotates it in for today.
func (e *testEnv) activatePrompt(t *testing.T, content string) *domain.Prompt {
	t.Helper()

	ctx := context.Background()
	p := &domain.Prompt{ID: "prompt-" + content, Content: content, CreatedAt: time.Now()}
	require.NoError(t, e.challenge.AddPrompt(ctx, p.ID, p))

	rotated, err := e.challenge.Rotate(ctx, e.store.Today())
	require.NoError(t, err)
	return rotated
}

// post publishes a public free article for the author.
func (e *testEnv) post(t *testing.T, authorID, title string) *domain.Article {
	t.Helper()

	a, err := e.articles.Create(context.Background(), authorID, CreateArticleRequest{
		Kind:   domain.KindFree,
		Title:  title,
		Body:   "body of " + title,
		Public: true,
	})
	require.NoError(t, err)
	return a
}
