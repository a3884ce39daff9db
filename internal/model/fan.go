package model

import "time"

// Fan 粉丝关系（UserID 的粉丝是 FanID），由 FanReplicator 异步冗余自 Follow
type Fan struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"index:idx_fan_user;uniqueIndex:idx_fan_pair,priority:1;not null"`
	FanID     uint64 `gorm:"uniqueIndex:idx_fan_pair,priority:2;not null"`
	CreatedAt time.Time
}

func (Fan) TableName() string { return "fans" }
