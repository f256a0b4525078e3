package model

import "time"

// Outbox 发帖事件外发盒（推模式扇出的输入，与 Post 同事务写入）
type Outbox struct {
    ID         string    `gorm:"primaryKey;type:varchar(36)"`
    PostID     string    `gorm:"type:varchar(36);uniqueIndex"`
    AuthorID   string    `gorm:"type:varchar(36);index:idx_outbox_author"`
    CreatedAt  time.Time `gorm:"index"`
    Status     string    `gorm:"type:varchar(16);index"`
    ProcessedAt *time.Time
    FanoutCount int64
}

func (Outbox) TableName() string { return "outbox" }

// Outbox 状态机：pending → processing → done
const (
    OutboxStatusPending    = "pending"
    OutboxStatusProcessing = "processing"
    OutboxStatusDone       = "done"
)
