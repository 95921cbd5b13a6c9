package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-server/internal/auth"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/search"
	"github.com/inkwell-app/inkwell-server/internal/service"
	"github.com/inkwell-app/inkwell-server/internal/store"
	"github.com/inkwell-app/inkwell-server/internal/validation"
)

// testEnvelope mirrors the response envelope for unmarshaling in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})

	st, err := store.New(t.TempDir(), time.UTC, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(index)

	keyHex, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	v := validation.New()

	services := &Services{
		Auth:      service.NewAuthService(st, tokens, v, log),
		Article:   service.NewArticleService(st, v, log),
		Feed:      service.NewFeedService(st, index, log),
		Challenge: service.NewChallengeService(st, log),
		Category:  service.NewCategoryService(st, v, log),
		User:      service.NewUserService(st, log),
		Relay:     service.NewRelayService(st, v, log),
	}

	s := NewServer(st, services, index, log)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// decodeEnvelope unmarshals a recorded response body into a typed envelope.
func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()

	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

// signup registers an account through the API and returns the access token
// and user ID.
func (ts *testServer) signup(t *testing.T, nickname string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    nickname + "@example.com",
		"nickname": nickname,
		"password": "a-long-enough-password",
	})
	require.Equal(t, http.StatusOK, resp.Code, "signup failed: %s", resp.Body.String())

	env := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	return env.Data.AccessToken, env.Data.User.ID
}

// post publishes a public free article through the API.
func (ts *testServer) post(t *testing.T, token, title string) ArticleResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/articles", map[string]any{
		"kind":   "free",
		"title":  title,
		"body":   "body of " + title,
		"public": true,
		"draft":  false,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "post failed: %s", resp.Body.String())

	return decodeEnvelope[ArticleResponse](t, resp.Body.Bytes()).Data
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}
