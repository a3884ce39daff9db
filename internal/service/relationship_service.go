package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/pagination"
)

// UserPage 一页用户
type UserPage = pagination.Page[*model.User]

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, followerID uint64, username string) error
	Unfollow(ctx context.Context, followerID uint64, username string) error
	IsFollowing(ctx context.Context, followerID, authorID uint64) (bool, error)
	ListFollowing(ctx context.Context, username string, page int) (UserPage, error)
	ListFans(ctx context.Context, username string, page int) (UserPage, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	fanRepo    repository.FanRepository
	userRepo   repository.UserRepository
	replicator *FanReplicator
	pageSize   int
}

func NewRelationshipService(
	followRepo repository.FollowRepository,
	fanRepo repository.FanRepository,
	userRepo repository.UserRepository,
	replicator *FanReplicator,
	pageSize int,
) RelationshipService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &relationshipService{
		followRepo: followRepo,
		fanRepo:    fanRepo,
		userRepo:   userRepo,
		replicator: replicator,
		pageSize:   pageSize,
	}
}

func (s *relationshipService) Follow(ctx context.Context, followerID uint64, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return notFoundOr(err, "get author")
	}
	if author.ID == followerID {
		return ErrFollowSelf
	}
	created, err := s.followRepo.Create(ctx, followerID, author.ID)
	if err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	if created && s.replicator != nil {
		s.replicator.EnqueueAdd(author.ID, followerID)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID uint64, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return notFoundOr(err, "get author")
	}
	deleted, err := s.followRepo.Delete(ctx, followerID, author.ID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	if s.replicator != nil {
		s.replicator.EnqueueRemove(author.ID, followerID)
	}
	return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, authorID uint64) (bool, error) {
	if followerID == 0 || followerID == authorID {
		return false, nil
	}
	ok, err := s.followRepo.Exists(ctx, followerID, authorID)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return ok, nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, username string, page int) (UserPage, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return UserPage{}, notFoundOr(err, "get user")
	}
	total, err := s.followRepo.CountFollowings(ctx, user.ID)
	if err != nil {
		return UserPage{}, fmt.Errorf("count followings: %w", err)
	}
	w := pagination.Paginate(total, s.pageSize, page)
	items, err := s.followRepo.ListFollowings(ctx, user.ID, w.Offset, w.Limit)
	if err != nil {
		return UserPage{}, fmt.Errorf("list followings: %w", err)
	}
	ids := make([]uint64, len(items))
	for i, it := range items {
		ids[i] = it.FolloweeID
	}
	return s.usersPage(ctx, ids, w)
}

// ListFans 读取粉丝表（异步冗余），可能短暂落后于 follows
func (s *relationshipService) ListFans(ctx context.Context, username string, page int) (UserPage, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return UserPage{}, notFoundOr(err, "get user")
	}
	total, err := s.fanRepo.CountFans(ctx, user.ID)
	if err != nil {
		return UserPage{}, fmt.Errorf("count fans: %w", err)
	}
	w := pagination.Paginate(total, s.pageSize, page)
	items, err := s.fanRepo.ListFans(ctx, user.ID, w.Offset, w.Limit)
	if err != nil {
		return UserPage{}, fmt.Errorf("list fans: %w", err)
	}
	ids := make([]uint64, len(items))
	for i, it := range items {
		ids[i] = it.FanID
	}
	return s.usersPage(ctx, ids, w)
}

func (s *relationshipService) usersPage(ctx context.Context, ids []uint64, w pagination.Window) (UserPage, error) {
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return UserPage{}, fmt.Errorf("load users: %w", err)
	}
	return UserPage{Items: users, Window: w}, nil
}
