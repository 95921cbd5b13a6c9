package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createRelay(t *testing.T, token, title string, capacity int) RelayResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/relays", map[string]any{
		"title":    title,
		"capacity": capacity,
	}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decodeEnvelope[RelayResponse](t, resp.Body.Bytes()).Data
}

func TestRelay_HostJoinsOnCreate(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.signup(t, "host")

	relay := ts.createRelay(t, token, "round robin", 5)
	assert.Equal(t, userID, relay.HostID)
	assert.Equal(t, 1, relay.MemberCount)
	assert.Contains(t, relay.MemberIDs, userID)
}

func TestRelay_JoinAndCapacity(t *testing.T) {
	ts := setupTestServer(t)
	hostToken, _ := ts.signup(t, "host")
	aToken, _ := ts.signup(t, "member-a")
	bToken, _ := ts.signup(t, "member-b")

	relay := ts.createRelay(t, hostToken, "tiny room", 2)

	resp := ts.api.Post("/api/v1/relays/"+relay.ID+"/join", bearer(aToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	joined := decodeEnvelope[RelayResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, 2, joined.MemberCount)

	// Room is full now.
	resp = ts.api.Post("/api/v1/relays/"+relay.ID+"/join", bearer(bToken))
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestRelay_ListLatestFirst(t *testing.T) {
	ts := setupTestServer(t)
	hostToken, _ := ts.signup(t, "host")

	first := ts.createRelay(t, hostToken, "first room", 0)
	second := ts.createRelay(t, hostToken, "second room", 0)

	resp := ts.api.Get("/api/v1/relays")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	list := decodeEnvelope[ListRelaysResponse](t, resp.Body.Bytes()).Data
	require.Len(t, list.Relays, 2)
	assert.Equal(t, second.ID, list.Relays[0].ID)
	assert.Equal(t, first.ID, list.Relays[1].ID)
	assert.False(t, list.HasMore)
}

func TestRelay_HostCannotLeave(t *testing.T) {
	ts := setupTestServer(t)
	hostToken, _ := ts.signup(t, "host")

	relay := ts.createRelay(t, hostToken, "my room", 0)

	resp := ts.api.Post("/api/v1/relays/"+relay.ID+"/leave", bearer(hostToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRelay_ArticlesRequireMembership(t *testing.T) {
	ts := setupTestServer(t)
	hostToken, _ := ts.signup(t, "host")
	outsiderToken, _ := ts.signup(t, "outsider")

	relay := ts.createRelay(t, hostToken, "writing circle", 0)

	resp := ts.api.Post("/api/v1/articles", map[string]any{
		"kind":     "relay",
		"title":    "sneaking in",
		"body":     "body",
		"relay_id": relay.ID,
		"public":   true,
		"draft":    false,
	}, bearer(outsiderToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Post("/api/v1/relays/"+relay.ID+"/join", bearer(outsiderToken))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/articles", map[string]any{
		"kind":     "relay",
		"title":    "my turn",
		"body":     "body",
		"relay_id": relay.ID,
		"public":   true,
		"draft":    false,
	}, bearer(outsiderToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The room feed carries the article.
	resp = ts.api.Get("/api/v1/relays/" + relay.ID + "/articles")
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeEnvelope[FeedPageResponse](t, resp.Body.Bytes()).Data
	require.Len(t, page.Items, 1)
	assert.Equal(t, "my turn", page.Items[0].Article.Title)
}

func TestRelay_NoticesAreHostOnly(t *testing.T) {
	ts := setupTestServer(t)
	hostToken, _ := ts.signup(t, "host")
	memberToken, _ := ts.signup(t, "member")

	relay := ts.createRelay(t, hostToken, "announcements", 0)

	resp := ts.api.Post("/api/v1/relays/"+relay.ID+"/join", bearer(memberToken))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/relays/"+relay.ID+"/notices", map[string]any{
		"body": "not my place",
	}, bearer(memberToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Post("/api/v1/relays/"+relay.ID+"/notices", map[string]any{
		"body": "welcome, write in turns",
	}, bearer(hostToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decodeEnvelope[RelayResponse](t, resp.Body.Bytes()).Data
	require.Len(t, updated.Notices, 1)

	resp = ts.api.Delete("/api/v1/relays/"+relay.ID+"/notices/"+updated.Notices[0].ID, bearer(hostToken))
	assert.Equal(t, http.StatusOK, resp.Code)
}
