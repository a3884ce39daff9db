package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/storage"
)

// ImageUpload 上传的图片
type ImageUpload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// PostInput 创建/编辑帖子的输入；GroupSlug 为空表示不属于任何分组，Image 为空表示保持原图
type PostInput struct {
	Text      string
	GroupSlug string
	Image     *ImageUpload
}

// PostDetail 帖子详情，评论按时间倒序
type PostDetail struct {
	Post     *model.Post
	Comments []*model.Comment
}

type PostService interface {
	Create(ctx context.Context, authorID uint64, in PostInput) (*model.Post, error)
	Get(ctx context.Context, id uint64) (*PostDetail, error)
	Update(ctx context.Context, userID, id uint64, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, userID, id uint64) error
	AddComment(ctx context.Context, userID, postID uint64, text string) (*model.Comment, error)
	CreateGroup(ctx context.Context, slug, title, description string) (*model.Group, error)
	DeleteGroup(ctx context.Context, slug string) error
}

type postService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
	images      storage.ImageStore
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	commentRepo repository.CommentRepository,
	images storage.ImageStore,
) PostService {
	return &postService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
		images:      images,
	}
}

func (s *postService) Create(ctx context.Context, authorID uint64, in PostInput) (*model.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, invalid("text is required")
	}
	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}
	post := &model.Post{Text: text, AuthorID: authorID, GroupID: groupID}
	if post.Image, err = s.saveImage(ctx, in.Image); err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, id uint64) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "get post")
	}
	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

func (s *postService) Update(ctx context.Context, userID, id uint64, in PostInput) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "get post")
	}
	if post.AuthorID != userID {
		return nil, ErrForbidden
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, invalid("text is required")
	}
	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}
	if in.Image != nil {
		if post.Image, err = s.saveImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}
	post.Text = text
	post.GroupID = groupID
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.postRepo.GetByID(ctx, id)
}

func (s *postService) Delete(ctx context.Context, userID, id uint64) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "get post")
	}
	if post.AuthorID != userID {
		return ErrForbidden
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "delete post")
	}
	return nil
}

func (s *postService) AddComment(ctx context.Context, userID, postID uint64, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("text is required")
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, notFoundOr(err, "get post")
	}
	comment := &model.Comment{PostID: postID, AuthorID: userID, Text: text}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *postService) CreateGroup(ctx context.Context, slug, title, description string) (*model.Group, error) {
	slug = strings.TrimSpace(slug)
	title = strings.TrimSpace(title)
	if slug == "" || title == "" {
		return nil, invalid("slug and title are required")
	}
	if _, err := s.groupRepo.GetBySlug(ctx, slug); err == nil {
		return nil, invalid("slug already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get group: %w", err)
	}
	group := &model.Group{Slug: slug, Title: title, Description: description}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

func (s *postService) DeleteGroup(ctx context.Context, slug string) error {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return notFoundOr(err, "get group")
	}
	if err := s.groupRepo.Delete(ctx, group.ID); err != nil {
		return notFoundOr(err, "delete group")
	}
	return nil
}

func (s *postService) resolveGroup(ctx context.Context, slug string) (*uint64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "get group")
	}
	return &group.ID, nil
}

func (s *postService) saveImage(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil || img.Body == nil {
		return "", nil
	}
	if s.images == nil {
		return "", invalid("image uploads are disabled")
	}
	key, err := s.images.Save(ctx, img.Name, img.Body, img.ContentType)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}
