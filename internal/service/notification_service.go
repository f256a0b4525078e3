package service

import (
    "context"

    "github.com/d60-Lab/social-feed/internal/model"
    "github.com/d60-Lab/social-feed/internal/repository"
)

// NotificationService 通知读取与已读标记（通知的写入只发生在
// 产生它的业务事务里，见 PostService.Like）
type NotificationService interface {
    List(ctx context.Context, recipientID string, page, pageSize int) ([]*model.Notification, error)
    UnreadCount(ctx context.Context, recipientID string) (int64, error)
    MarkRead(ctx context.Context, recipientID, notifID string) error
}

type notificationService struct {
    notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) NotificationService {
    return &notificationService{notifRepo: notifRepo}
}

func (s *notificationService) List(ctx context.Context, recipientID string, page, pageSize int) ([]*model.Notification, error) {
    offset, limit := pageWindow(page, pageSize)
    return s.notifRepo.ListByRecipient(ctx, recipientID, offset, limit)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
    return s.notifRepo.CountUnread(ctx, recipientID)
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID, notifID string) error {
    ok, err := s.notifRepo.MarkRead(ctx, recipientID, notifID)
    if err != nil {
        return err
    }
    if !ok {
        return ErrNotificationNotFound
    }
    return nil
}
