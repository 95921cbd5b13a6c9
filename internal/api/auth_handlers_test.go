package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_ReturnsTokensInEnvelope(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "ink@example.com",
		"nickname": "inkling",
		"password": "a-long-enough-password",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, env.V)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.NotEmpty(t, env.Data.RefreshToken)
	assert.Equal(t, "Bearer", env.Data.TokenType)
	assert.Equal(t, "inkling", env.Data.User.Nickname)
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "inkling")

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "inkling@example.com",
		"nickname": "someone-else",
		"password": "a-long-enough-password",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	env := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "CONFLICT", env.Code)
}

func TestLogin_BadPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "inkling")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "inkling@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "ink@example.com",
		"nickname": "inkling",
		"password": "a-long-enough-password",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	first := decodeEnvelope[AuthResponse](t, resp.Body.Bytes()).Data

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	second := decodeEnvelope[AuthResponse](t, resp.Body.Bytes()).Data
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The old refresh token is single-use.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/users/me", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
