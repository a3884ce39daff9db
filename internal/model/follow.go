package model

import (
	"time"
)

// Follow 关注关系（Follower 关注 Followee）
type Follow struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	FollowerID uint64 `gorm:"index:idx_follow_follower;uniqueIndex:idx_follow_pair,priority:1;not null;check:chk_follow_not_self,follower_id <> followee_id"`
	FolloweeID uint64 `gorm:"index:idx_follow_followee;uniqueIndex:idx_follow_pair,priority:2;not null"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, followee_id)
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
