package model

import "time"

// Notification 通知（只追加；除已读标记外不更新，正常流程不删除）
type Notification struct {
    ID          string    `gorm:"primaryKey;type:varchar(36)"`
    RecipientID string    `gorm:"type:varchar(36);index:idx_notif_recipient;not null"`
    ActorID     string    `gorm:"type:varchar(36);not null"`
    Verb        string    `gorm:"type:varchar(64);not null"`
    TargetType  string    `gorm:"type:varchar(32)"`
    TargetID    string    `gorm:"type:varchar(36)"`
    IsRead      bool      `gorm:"not null;default:false"`
    CreatedAt   time.Time `gorm:"index:idx_notif_recipient"`
}

func (Notification) TableName() string { return "notifications" }

// 通知动词与目标类型常量
const (
    VerbLikedPost     = "liked your post"
    VerbCommentedPost = "commented on your post"

    TargetTypePost = "post"
    TargetTypeUser = "user"
)
