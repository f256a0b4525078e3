package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/social-feed/internal/model"
)

type InboxRepository interface {
    // ListTimeline 推模型时间线：按 score 降序做 keyset 分页
    ListTimeline(ctx context.Context, userID string, limit int, beforeScore int64, beforePostID string) ([]*model.Inbox, error)
    DeleteByPost(ctx context.Context, postID string) error
    DeleteByUser(ctx context.Context, userID string) error
}

type inboxRepository struct {
    db *gorm.DB
}

func NewInboxRepository(db *gorm.DB) InboxRepository { return &inboxRepository{db: db} }

func (r *inboxRepository) ListTimeline(ctx context.Context, userID string, limit int, beforeScore int64, beforePostID string) ([]*model.Inbox, error) {
    q := r.db.WithContext(ctx).Where("user_id = ?", userID)
    if beforeScore > 0 {
        q = q.Where("score < ? OR (score = ? AND post_id < ?)", beforeScore, beforeScore, beforePostID)
    }
    var res []*model.Inbox
    err := q.Order("score DESC, post_id DESC").Limit(limit).Find(&res).Error
    return res, err
}

func (r *inboxRepository) DeleteByPost(ctx context.Context, postID string) error {
    return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.Inbox{}).Error
}

func (r *inboxRepository) DeleteByUser(ctx context.Context, userID string) error {
    return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Inbox{}).Error
}
