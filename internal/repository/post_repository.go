package repository

import (
    "context"
    "time"

    "gorm.io/gorm"

    "github.com/d60-Lab/social-feed/internal/model"
)

type PostRepository interface {
    GetByID(ctx context.Context, id string) (*model.Post, error)
    ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error)
    ListByIDs(ctx context.Context, ids []string) ([]*model.Post, error)
    // FeedPage 拉模型时间线：关注者的帖子按 (created_at, id) 降序做 keyset 分页
    FeedPage(ctx context.Context, followerID string, limit int, beforeAt time.Time, beforeID string) ([]*model.Post, error)
}

type postRepository struct {
    db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
    var p model.Post
    if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
        return nil, err
    }
    return &p, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.Post, error) {
    var res []*model.Post
    err := r.db.WithContext(ctx).
        Where("author_id = ?", authorID).
        Order("created_at DESC").
        Offset(offset).Limit(limit).
        Find(&res).Error
    return res, err
}

func (r *postRepository) ListByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
    if len(ids) == 0 {
        return []*model.Post{}, nil
    }
    var res []*model.Post
    err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
    return res, err
}

func (r *postRepository) FeedPage(ctx context.Context, followerID string, limit int, beforeAt time.Time, beforeID string) ([]*model.Post, error) {
    // 自己的帖子天然不在 follows 里（禁止自关注），无需额外排除
    q := r.db.WithContext(ctx).
        Joins("JOIN follows ON follows.followee_id = posts.author_id").
        Where("follows.follower_id = ?", followerID)
    if !beforeAt.IsZero() {
        q = q.Where("posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?)", beforeAt, beforeAt, beforeID)
    }
    var res []*model.Post
    err := q.Order("posts.created_at DESC, posts.id DESC").Limit(limit).Find(&res).Error
    return res, err
}
