package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/testutil"
)

func TestRelationshipService_FollowRules(t *testing.T) {
	db := testutil.NewDB(t)
	rel := NewRelationshipService(
		repository.NewFollowRepository(db),
		repository.NewFanRepository(db),
		repository.NewUserRepository(db),
		nil, 10,
	)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")
	bob := testutil.MustUser(t, db, "bob")

	assert.ErrorIs(t, rel.Follow(ctx, alice.ID, "alice"), ErrFollowSelf)
	assert.ErrorIs(t, rel.Follow(ctx, alice.ID, "ghost"), ErrNotFound)

	require.NoError(t, rel.Follow(ctx, alice.ID, "bob"))
	require.NoError(t, rel.Follow(ctx, alice.ID, "bob"))

	ok, err := rel.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rel.IsFollowing(ctx, 0, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	following, err := rel.ListFollowing(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, following.Items, 1)
	assert.Equal(t, "bob", following.Items[0].Username)
	assert.Equal(t, int64(1), following.Total)

	require.NoError(t, rel.Unfollow(ctx, alice.ID, "bob"))
	assert.ErrorIs(t, rel.Unfollow(ctx, alice.ID, "bob"), ErrNotFound)
	assert.ErrorIs(t, rel.Unfollow(ctx, alice.ID, "ghost"), ErrNotFound)
}

func TestFanReplicator_MaintainsFanIndex(t *testing.T) {
	db := testutil.NewDB(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fanRepo := repository.NewFanRepository(db)
	replicator := NewFanReplicator(fanRepo, 16)
	stop := replicator.Start(2)

	rel := NewRelationshipService(
		repository.NewFollowRepository(db),
		fanRepo,
		repository.NewUserRepository(db),
		replicator, 10,
	)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")
	carol := testutil.MustUser(t, db, "carol")
	testutil.MustUser(t, db, "bob")

	require.NoError(t, rel.Follow(ctx, alice.ID, "bob"))
	require.NoError(t, rel.Follow(ctx, carol.ID, "bob"))

	assert.Eventually(t, func() bool {
		fans, err := rel.ListFans(ctx, "bob", 1)
		return err == nil && len(fans.Items) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, rel.Unfollow(ctx, carol.ID, "bob"))
	assert.Eventually(t, func() bool {
		fans, err := rel.ListFans(ctx, "bob", 1)
		return err == nil && len(fans.Items) == 1 && fans.Items[0].Username == "alice"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, stop(ctx))
	// 重复调用安全
	require.NoError(t, stop(ctx))
}

func TestFanReplicator_DropsWhenFull(t *testing.T) {
	db := testutil.NewDB(t)
	replicator := NewFanReplicator(repository.NewFanRepository(db), 1)

	replicator.EnqueueAdd(1, 2)
	replicator.EnqueueAdd(1, 3)
	assert.Equal(t, 1, replicator.QueueLen())
}

func TestFanReplicator_StopDrainsQueue(t *testing.T) {
	db := testutil.NewDB(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fanRepo := repository.NewFanRepository(db)
	bob := testutil.MustUser(t, db, "bob")
	alice := testutil.MustUser(t, db, "alice")
	replicator := NewFanReplicator(fanRepo, 8)
	replicator.EnqueueAdd(bob.ID, alice.ID)

	stop := replicator.Start(1)
	require.NoError(t, stop(context.Background()))

	cnt, err := fanRepo.CountFans(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
	assert.Zero(t, replicator.QueueLen())
}
