package model

// Group 帖子分组，slug 作为分组信息流的 key
type Group struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
}

func (Group) TableName() string { return "groups" }
