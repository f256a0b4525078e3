package model

import "time"

// Post 内容主体（作者不可变更）
type Post struct {
    ID        string    `gorm:"primaryKey;type:varchar(36)"`
    AuthorID  string    `gorm:"type:varchar(36);index:idx_post_author;not null"`
    Content   string    `gorm:"type:text"`
    CreatedAt time.Time `gorm:"index:idx_post_created"`
    UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }
