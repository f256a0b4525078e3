package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/social-feed/internal/model"
)

type CommentRepository interface {
    // ListByPost 按会话顺序（最早在前）分页
    ListByPost(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, error)
    CountByPost(ctx context.Context, postID string) (int64, error)
}

type commentRepository struct {
    db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) ListByPost(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, error) {
    var res []*model.Comment
    err := r.db.WithContext(ctx).
        Where("post_id = ?", postID).
        Order("created_at ASC, id ASC").
        Offset(offset).Limit(limit).
        Find(&res).Error
    return res, err
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Count(&cnt).Error
    return cnt, err
}
