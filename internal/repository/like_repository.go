package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/social-feed/internal/model"
)

type LikeRepository interface {
    Get(ctx context.Context, userID, postID string) (*model.Like, error)
    CountByPost(ctx context.Context, postID string) (int64, error)
}

type likeRepository struct {
    db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Get(ctx context.Context, userID, postID string) (*model.Like, error) {
    var lk model.Like
    if err := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).First(&lk).Error; err != nil {
        return nil, err
    }
    return &lk, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
    return cnt, err
}
