package model

import "time"

// Comment 评论
type Comment struct {
    ID        string    `gorm:"primaryKey;type:varchar(36)"`
    PostID    string    `gorm:"type:varchar(36);not null;index:idx_comment_post"`
    AuthorID  string    `gorm:"type:varchar(36);not null"`
    Content   string    `gorm:"type:text;not null"`
    CreatedAt time.Time `gorm:"index:idx_comment_post"`
    UpdatedAt time.Time
}

func (Comment) TableName() string { return "comments" }
