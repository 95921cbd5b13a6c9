package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_LatestOrdering(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "writer")

	first := ts.post(t, token, "first")
	second := ts.post(t, token, "second")

	resp := ts.api.Get("/api/v1/feed")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[FeedPageResponse](t, resp.Body.Bytes())
	assert.True(t, env.Success)
	require.Len(t, env.Data.Items, 2)
	assert.Equal(t, second.ID, env.Data.Items[0].Article.ID)
	assert.Equal(t, first.ID, env.Data.Items[1].Article.ID)
	assert.Equal(t, "writer", env.Data.Items[0].Author.Nickname)
	assert.False(t, env.Data.HasMore)
}

func TestFeed_RejectsUnknownOrder(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/feed?orderBy=TRENDING")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
}

func TestFeed_SearchFiltersAndRecordsHistory(t *testing.T) {
	ts := setupTestServer(t)
	writerToken, _ := ts.signup(t, "writer")
	readerToken, _ := ts.signup(t, "reader")

	match := ts.post(t, writerToken, "autumn walk in the park")
	ts.post(t, writerToken, "rainy afternoon")

	resp := ts.api.Get("/api/v1/feed?q=autumn", bearer(readerToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	page := decodeEnvelope[FeedPageResponse](t, resp.Body.Bytes()).Data
	require.Len(t, page.Items, 1)
	assert.Equal(t, match.ID, page.Items[0].Article.ID)

	resp = ts.api.Get("/api/v1/users/me/searches", bearer(readerToken))
	require.Equal(t, http.StatusOK, resp.Code)
	history := decodeEnvelope[SearchHistoryResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, []string{"autumn"}, history.Terms)

	resp = ts.api.Delete("/api/v1/users/me/searches", bearer(readerToken))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/users/me/searches", bearer(readerToken))
	require.Equal(t, http.StatusOK, resp.Code)
	history = decodeEnvelope[SearchHistoryResponse](t, resp.Body.Bytes()).Data
	assert.Empty(t, history.Terms)
}

func TestFeed_SubscribedRequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/feed?subscribed=true")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestFeed_SubscribedShowsFollowedAuthorsOnly(t *testing.T) {
	ts := setupTestServer(t)
	followedToken, followedID := ts.signup(t, "followed")
	ignoredToken, _ := ts.signup(t, "ignored")
	readerToken, _ := ts.signup(t, "reader")

	ts.post(t, followedToken, "from followed")
	ts.post(t, ignoredToken, "from ignored")

	resp := ts.api.Post("/api/v1/users/"+followedID+"/subscribe", bearer(readerToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/feed?subscribed=true", bearer(readerToken))
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeEnvelope[FeedPageResponse](t, resp.Body.Bytes()).Data
	require.Len(t, page.Items, 1)
	assert.Equal(t, followedID, page.Items[0].Article.AuthorID)
}
