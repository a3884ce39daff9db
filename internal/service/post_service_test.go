package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/testutil"
)

type memImages struct {
	saved map[string]string
}

func (m *memImages) Save(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := "posts/" + name
	m.saved[key] = string(data)
	return key, nil
}

func (m *memImages) URL(key string) string { return "/media/" + key }

func newPostService(db *gorm.DB) (PostService, *memImages) {
	images := &memImages{saved: map[string]string{}}
	return NewPostService(
		repository.NewPostRepository(db),
		repository.NewGroupRepository(db),
		repository.NewCommentRepository(db),
		images,
	), images
}

func TestPostService_CreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	svc, images := newPostService(db)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")
	testutil.MustGroup(t, db, "cats")

	_, err := svc.Create(ctx, alice.ID, PostInput{Text: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, alice.ID, PostInput{Text: "hi", GroupSlug: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	post, err := svc.Create(ctx, alice.ID, PostInput{
		Text:      "hello",
		GroupSlug: "cats",
		Image:     &ImageUpload{Name: "a.png", ContentType: "image/png", Body: strings.NewReader("img")},
	})
	require.NoError(t, err)
	assert.Equal(t, "posts/a.png", post.Image)
	assert.Equal(t, "img", images.saved["posts/a.png"])

	detail, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", detail.Post.Text)
	assert.Equal(t, "alice", detail.Post.Author.Username)
	require.NotNil(t, detail.Post.Group)
	assert.Equal(t, "cats", detail.Post.Group.Slug)
	assert.Empty(t, detail.Comments)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_UpdateOnlyByAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	svc, _ := newPostService(db)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")
	bob := testutil.MustUser(t, db, "bob")
	cats := testutil.MustGroup(t, db, "cats")
	created := time.Date(2022, 2, 2, 0, 0, 0, 0, time.UTC)
	post := testutil.MustPost(t, db, alice, cats, "draft", created)
	post.Image = "posts/keep.png"
	require.NoError(t, db.Model(post).Update("image", post.Image).Error)

	_, err := svc.Update(ctx, bob.ID, post.ID, PostInput{Text: "hacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, alice.ID, 9999, PostInput{Text: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.Update(ctx, alice.ID, post.ID, PostInput{Text: "final"})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Text)
	assert.Nil(t, updated.GroupID)
	assert.Equal(t, "posts/keep.png", updated.Image)
	assert.True(t, updated.CreatedAt.Equal(created))
}

func TestPostService_DeleteAndComments(t *testing.T) {
	db := testutil.NewDB(t)
	svc, _ := newPostService(db)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")
	bob := testutil.MustUser(t, db, "bob")
	post := testutil.MustPost(t, db, alice, nil, "post", time.Now())

	_, err := svc.AddComment(ctx, bob.ID, post.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddComment(ctx, bob.ID, 9999, "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := svc.AddComment(ctx, bob.ID, post.ID, "nice")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	detail, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "bob", detail.Comments[0].Author.Username)

	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, post.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, alice.ID, post.ID))
	assert.ErrorIs(t, svc.Delete(ctx, alice.ID, post.ID), ErrNotFound)
}

func TestPostService_Groups(t *testing.T) {
	db := testutil.NewDB(t)
	svc, _ := newPostService(db)
	ctx := context.Background()
	alice := testutil.MustUser(t, db, "alice")

	group, err := svc.CreateGroup(ctx, "cats", "Cats", "all about cats")
	require.NoError(t, err)
	_, err = svc.CreateGroup(ctx, "cats", "Again", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateGroup(ctx, "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	post := testutil.MustPost(t, db, alice, group, "meow", time.Now())
	require.NoError(t, svc.DeleteGroup(ctx, "cats"))
	assert.ErrorIs(t, svc.DeleteGroup(ctx, "cats"), ErrNotFound)

	detail, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Post.GroupID)
	assert.Nil(t, detail.Post.Group)
}
