package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/testutil"
)

func postTexts(posts []*model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Text)
	}
	return out
}

func TestPostRepository_ListOrderAndFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := testutil.MustUser(t, db, "alice")
	bob := testutil.MustUser(t, db, "bob")
	cats := testutil.MustGroup(t, db, "cats")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	testutil.MustPost(t, db, alice, cats, "a1", base)
	testutil.MustPost(t, db, bob, nil, "b1", base.Add(time.Minute))
	testutil.MustPost(t, db, alice, nil, "a2", base.Add(2*time.Minute))
	testutil.MustPost(t, db, bob, cats, "b2", base.Add(3*time.Minute))

	all, err := repo.List(ctx, PostFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "a2", "b1", "a1"}, postTexts(all))
	assert.Equal(t, "bob", all[0].Author.Username)
	require.NotNil(t, all[0].Group)
	assert.Equal(t, "cats", all[0].Group.Slug)

	inGroup, err := repo.List(ctx, PostFilter{GroupID: cats.ID}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "a1"}, postTexts(inGroup))

	byAlice, err := repo.List(ctx, PostFilter{AuthorIDs: []uint64{alice.ID}}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, postTexts(byAlice))

	cnt, err := repo.Count(ctx, PostFilter{AuthorIDs: []uint64{bob.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), cnt)

	window, err := repo.List(ctx, PostFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "b1"}, postTexts(window))

	none, err := repo.List(ctx, PostFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostRepository_TiesBrokenByID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	alice := testutil.MustUser(t, db, "alice")
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		testutil.MustPost(t, db, alice, nil, fmt.Sprintf("p%d", i), at)
	}

	posts, err := repo.List(context.Background(), PostFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1", "p0"}, postTexts(posts))
}

func TestPostRepository_UpdateKeepsCreatedAt(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")
	cats := testutil.MustGroup(t, db, "cats")
	created := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	p := testutil.MustPost(t, db, alice, cats, "old", created)

	p.Text = "new"
	p.GroupID = nil
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Text)
	assert.Nil(t, got.GroupID)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestPostRepository_DeleteRemovesComments(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")
	p := testutil.MustPost(t, db, alice, nil, "post", time.Now())

	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: p.ID, AuthorID: alice.ID, Text: "hi"}))
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	left, err := comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	err = repo.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGroupRepository_DeleteDetachesPosts(t *testing.T) {
	db := testutil.NewDB(t)
	groups := NewGroupRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")
	cats := testutil.MustGroup(t, db, "cats")
	p := testutil.MustPost(t, db, alice, cats, "meow", time.Now())

	got, err := groups.GetBySlug(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, cats.ID, got.ID)

	require.NoError(t, groups.Delete(ctx, cats.ID))

	left, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, left.GroupID)

	_, err = groups.GetBySlug(ctx, "cats")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.True(t, errors.Is(groups.Delete(ctx, cats.ID), gorm.ErrRecordNotFound))
}

func TestUserRepository_ListByIDsKeepsOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	a := testutil.MustUser(t, db, "alice")
	b := testutil.MustUser(t, db, "bob")
	c := testutil.MustUser(t, db, "carol")

	users, err := repo.ListByIDs(ctx, []uint64{c.ID, a.ID, 999, b.ID})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "carol", users[0].Username)
	assert.Equal(t, "alice", users[1].Username)
	assert.Equal(t, "bob", users[2].Username)

	got, err := repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCommentRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")
	p := testutil.MustPost(t, db, alice, nil, "post", time.Now())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &model.Comment{PostID: p.ID, AuthorID: alice.ID, Text: "first", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &model.Comment{PostID: p.ID, AuthorID: alice.ID, Text: "second", CreatedAt: base.Add(time.Second)}))

	list, err := repo.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Text)
	assert.Equal(t, "alice", list[0].Author.Username)
}
