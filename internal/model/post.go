package model

import "time"

// Post 帖子；所有信息流按 (created_at DESC, id DESC) 排序
type Post struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Text      string    `gorm:"type:text;not null"`
	AuthorID  uint64    `gorm:"index:idx_post_author_created,priority:1;not null"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupID   *uint64   `gorm:"index:idx_post_group_created,priority:1"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Image     string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"index;index:idx_post_author_created,priority:2;index:idx_post_group_created,priority:2"`
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }

// FeedOrder 信息流统一排序，id 保证同一时间戳下结果确定
const FeedOrder = "posts.created_at DESC, posts.id DESC"
