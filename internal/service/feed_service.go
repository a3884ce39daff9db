package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/pagination"
)

// PostPage 一页帖子
type PostPage = pagination.Page[*model.Post]

// FeedService 信息流查询：全站、分组、作者、关注
type FeedService interface {
	GlobalFeed(ctx context.Context, page int) (PostPage, error)
	GroupFeed(ctx context.Context, slug string, page int) (*model.Group, PostPage, error)
	AuthorFeed(ctx context.Context, username string, page int) (*model.User, PostPage, error)
	FollowingFeed(ctx context.Context, userID uint64, page int) (PostPage, error)
}

type feedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	pageSize   int
}

func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	pageSize int,
) FeedService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &feedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		pageSize:   pageSize,
	}
}

func (s *feedService) GlobalFeed(ctx context.Context, page int) (PostPage, error) {
	return s.paginate(ctx, repository.PostFilter{}, page)
}

func (s *feedService) GroupFeed(ctx context.Context, slug string, page int) (*model.Group, PostPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, PostPage{}, notFoundOr(err, "get group")
	}
	res, err := s.paginate(ctx, repository.PostFilter{GroupID: group.ID}, page)
	return group, res, err
}

func (s *feedService) AuthorFeed(ctx context.Context, username string, page int) (*model.User, PostPage, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, PostPage{}, notFoundOr(err, "get author")
	}
	res, err := s.paginate(ctx, repository.PostFilter{AuthorIDs: []uint64{author.ID}}, page)
	return author, res, err
}

// FollowingFeed 先取关注集合，再按 author_id IN (...) 过滤；关注集合为空时不查帖子表
func (s *feedService) FollowingFeed(ctx context.Context, userID uint64, page int) (PostPage, error) {
	ids, err := s.followRepo.ListFolloweeIDs(ctx, userID)
	if err != nil {
		return PostPage{}, fmt.Errorf("list followees: %w", err)
	}
	if len(ids) == 0 {
		return pagination.Empty[*model.Post](s.pageSize), nil
	}
	return s.paginate(ctx, repository.PostFilter{AuthorIDs: ids}, page)
}

func (s *feedService) paginate(ctx context.Context, filter repository.PostFilter, page int) (PostPage, error) {
	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return PostPage{}, fmt.Errorf("count posts: %w", err)
	}
	w := pagination.Paginate(total, s.pageSize, page)
	items, err := s.postRepo.List(ctx, filter, w.Offset, w.Limit)
	if err != nil {
		return PostPage{}, fmt.Errorf("list posts: %w", err)
	}
	return PostPage{Items: items, Window: w}, nil
}
