package model

import "time"

// User 用户（注册身份 + 个人资料）
type User struct {
    ID        string    `gorm:"primaryKey;type:varchar(36)"`
    Username  string    `gorm:"type:varchar(64);uniqueIndex;not null"`
    Email     string    `gorm:"type:varchar(128);uniqueIndex;not null"`
    Password  string    `gorm:"type:varchar(128);not null" json:"-"` // bcrypt hash
    Bio       string    `gorm:"type:text"`
    AvatarURL string    `gorm:"type:varchar(256)"`
    CreatedAt time.Time
    UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
