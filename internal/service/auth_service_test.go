package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/testutil"
)

func TestAuthService_SignupLoginParse(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), "secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "a@example.com", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	user, err := svc.Signup(ctx, "alice", "a@example.com", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)

	_, err = svc.Signup(ctx, "alice", "b@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "ghost", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, logged, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	id, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	current, err := svc.CurrentUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", current.Username)
}

func TestAuthService_RejectsForeignAndExpiredTokens(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	alice := testutil.MustUser(t, db, "alice")

	other := NewAuthService(users, "other-secret", time.Hour).(*authService)
	foreign, err := other.issue(alice.ID)
	require.NoError(t, err)

	svc := NewAuthService(users, "secret", time.Hour).(*authService)
	_, err = svc.ParseToken(foreign)
	assert.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.issue(alice.ID)
	require.NoError(t, err)
	svc.now = time.Now
	_, err = svc.ParseToken(expired)
	assert.Error(t, err)

	_, err = svc.ParseToken("not-a-token")
	assert.Error(t, err)
}
