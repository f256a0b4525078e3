package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/social-feed/internal/model"
)

type NotificationRepository interface {
    ListByRecipient(ctx context.Context, recipientID string, offset, limit int) ([]*model.Notification, error)
    CountUnread(ctx context.Context, recipientID string) (int64, error)
    // MarkRead 唯一允许的通知更新；返回是否命中
    MarkRead(ctx context.Context, recipientID, notifID string) (bool, error)
}

type notificationRepository struct {
    db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
    return &notificationRepository{db: db}
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, offset, limit int) ([]*model.Notification, error) {
    var res []*model.Notification
    err := r.db.WithContext(ctx).
        Where("recipient_id = ?", recipientID).
        Order("created_at DESC").
        Offset(offset).Limit(limit).
        Find(&res).Error
    return res, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).Model(&model.Notification{}).
        Where("recipient_id = ? AND is_read = ?", recipientID, false).
        Count(&cnt).Error
    return cnt, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, notifID string) (bool, error) {
    res := r.db.WithContext(ctx).Model(&model.Notification{}).
        Where("id = ? AND recipient_id = ?", notifID, recipientID).
        Update("is_read", true)
    if res.Error != nil {
        return false, res.Error
    }
    return res.RowsAffected > 0, nil
}
