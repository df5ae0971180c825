// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
	"codeberg.org/oliverandrich/vocabulary-app/internal/repository"
	"codeberg.org/oliverandrich/vocabulary-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "a@b.com")

	session := &models.Session{UserID: user.ID, SessionToken: "tok-1", ExpiresAt: fixedTime.Add(time.Hour)}
	require.NoError(t, repo.CreateSession(ctx, session))

	assert.NotZero(t, session.ID)
}

func TestCreateSession_DuplicateToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "a@b.com")

	require.NoError(t, repo.CreateSession(ctx, &models.Session{UserID: user.ID, SessionToken: "tok", ExpiresAt: fixedTime}))
	err := repo.CreateSession(ctx, &models.Session{UserID: user.ID, SessionToken: "tok", ExpiresAt: fixedTime})

	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCreateSession_UnknownUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	err := repo.CreateSession(context.Background(), &models.Session{UserID: 999, SessionToken: "tok", ExpiresAt: fixedTime})

	assert.Error(t, err)
}

func TestGetActiveSession(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "a@b.com")
	expires := fixedTime.Add(time.Hour)
	require.NoError(t, repo.CreateSession(ctx, &models.Session{UserID: user.ID, SessionToken: "tok", ExpiresAt: expires}))

	session, err := repo.GetActiveSession(ctx, "tok", fixedTime)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.True(t, expires.Equal(session.ExpiresAt))

	_, err = repo.GetActiveSession(ctx, "tok", expires)
	assert.ErrorIs(t, err, repository.ErrNotFound, "expiry is exclusive")

	_, err = repo.GetActiveSession(ctx, "tok", expires.Add(time.Second))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetActiveSession(ctx, "other", fixedTime)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteSession(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "a@b.com")
	require.NoError(t, repo.CreateSession(ctx, &models.Session{UserID: user.ID, SessionToken: "tok", ExpiresAt: fixedTime.Add(time.Hour)}))

	require.NoError(t, repo.DeleteSession(ctx, "tok"))

	_, err := repo.GetActiveSession(ctx, "tok", fixedTime)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Deleting again is not an error
	assert.NoError(t, repo.DeleteSession(ctx, "tok"))
}

func TestDeleteExpiredSessions(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "a@b.com")

	for i, offset := range []time.Duration{-time.Hour, 0, time.Hour} {
		require.NoError(t, repo.CreateSession(ctx, &models.Session{
			UserID:       user.ID,
			SessionToken: string(rune('a' + i)),
			ExpiresAt:    fixedTime.Add(offset),
		}))
	}

	deleted, err := repo.DeleteExpiredSessions(ctx, fixedTime)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.CountUserSessions(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)
}

func TestSessionsCascadeOnUserDelete(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "a@b.com")
	require.NoError(t, repo.CreateSession(ctx, &models.Session{UserID: user.ID, SessionToken: "tok", ExpiresAt: fixedTime.Add(time.Hour)}))

	require.NoError(t, repo.DeleteUser(ctx, user.ID))

	count, err := repo.CountUserSessions(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
