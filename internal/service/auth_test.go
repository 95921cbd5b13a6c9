package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
)

func TestAuthService_SignupAndLogin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	resp, err := e.auth.Signup(ctx, SignupRequest{
		Email:    "ink@example.com",
		Nickname: "inkling",
		Password: "a-long-enough-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "inkling", resp.User.Nickname)

	login, err := e.auth.Login(ctx, LoginRequest{
		Email:    "ink@example.com",
		Password: "a-long-enough-password",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	claims, err := e.auth.VerifyAccess(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "inkling", claims.Nickname)
}

func TestAuthService_SignupConflicts(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.signup(t, "inkling")

	_, err := e.auth.Signup(ctx, SignupRequest{
		Email:    "inkling@example.com",
		Nickname: "someone-else",
		Password: "a-long-enough-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = e.auth.Signup(ctx, SignupRequest{
		Email:    "fresh@example.com",
		Nickname: "inkling",
		Password: "a-long-enough-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.signup(t, "inkling")

	_, err := e.auth.Login(ctx, LoginRequest{Email: "inkling@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Unknown email yields the same error as a bad password.
	_, err = e.auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	resp, err := e.auth.Signup(ctx, SignupRequest{
		Email:    "ink@example.com",
		Nickname: "inkling",
		Password: "a-long-enough-password",
	})
	require.NoError(t, err)

	refreshed, err := e.auth.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// Refresh tokens are single-use.
	_, err = e.auth.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// The rotated token still works.
	_, err = e.auth.Refresh(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	resp, err := e.auth.Signup(ctx, SignupRequest{
		Email:    "ink@example.com",
		Nickname: "inkling",
		Password: "a-long-enough-password",
	})
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(ctx, resp.RefreshToken))

	_, err = e.auth.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Logging out twice is fine.
	assert.NoError(t, e.auth.Logout(ctx, resp.RefreshToken))
}
