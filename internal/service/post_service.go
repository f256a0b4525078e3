package service

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/social-feed/internal/model"
    "github.com/d60-Lab/social-feed/internal/repository"
)

// PostService 内容服务：发帖、评论、点赞及各自的删除
type PostService interface {
    Create(ctx context.Context, authorID, content string) (*model.Post, error)
    Get(ctx context.Context, postID string) (*model.Post, int64, int64, error)
    Delete(ctx context.Context, actorID, postID string) error
    ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]*model.Post, error)
    Like(ctx context.Context, actorID, postID string) (*model.Like, error)
    Unlike(ctx context.Context, actorID, postID string) error
    Comment(ctx context.Context, actorID, postID, content string) (*model.Comment, error)
    ListComments(ctx context.Context, postID string, page, pageSize int) ([]*model.Comment, error)
    DeleteComment(ctx context.Context, actorID, commentID string) error
}

type postService struct {
    db          *gorm.DB
    postRepo    repository.PostRepository
    likeRepo    repository.LikeRepository
    commentRepo repository.CommentRepository
    // 推模式下发帖时写 outbox，由扇出 worker 落 inbox
    fanout bool
}

func NewPostService(db *gorm.DB, postRepo repository.PostRepository, likeRepo repository.LikeRepository, commentRepo repository.CommentRepository, fanout bool) PostService {
    return &postService{db: db, postRepo: postRepo, likeRepo: likeRepo, commentRepo: commentRepo, fanout: fanout}
}

// Create 在一个事务内落地 Post 与 Outbox 事件
func (s *postService) Create(ctx context.Context, authorID, content string) (*model.Post, error) {
    now := time.Now()
    post := &model.Post{ID: uuid.New().String(), AuthorID: authorID, Content: content, CreatedAt: now, UpdatedAt: now}
    err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        if err := tx.Create(post).Error; err != nil {
            return err
        }
        if !s.fanout {
            return nil
        }
        out := &model.Outbox{ID: uuid.New().String(), PostID: post.ID, AuthorID: authorID, CreatedAt: now, Status: model.OutboxStatusPending}
        return tx.Create(out).Error
    })
    if err != nil {
        return nil, err
    }
    return post, nil
}

// Get 返回帖子及其点赞数、评论数
func (s *postService) Get(ctx context.Context, postID string) (*model.Post, int64, int64, error) {
    post, err := s.postRepo.GetByID(ctx, postID)
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, 0, 0, ErrPostNotFound
        }
        return nil, 0, 0, err
    }
    likes, err := s.likeRepo.CountByPost(ctx, postID)
    if err != nil {
        return nil, 0, 0, err
    }
    comments, err := s.commentRepo.CountByPost(ctx, postID)
    if err != nil {
        return nil, 0, 0, err
    }
    return post, likes, comments, nil
}

// Delete 仅作者可删；同事务内清掉帖子的评论、点赞、inbox、outbox 残留
func (s *postService) Delete(ctx context.Context, actorID, postID string) error {
    return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        var post model.Post
        if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
            if errors.Is(err, gorm.ErrRecordNotFound) {
                return ErrPostNotFound
            }
            return err
        }
        if post.AuthorID != actorID {
            return ErrForbidden
        }
        if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
            return err
        }
        if err := tx.Where("post_id = ?", postID).Delete(&model.Like{}).Error; err != nil {
            return err
        }
        if err := repository.NewInboxRepository(tx).DeleteByPost(ctx, postID); err != nil {
            return err
        }
        if err := tx.Where("post_id = ?", postID).Delete(&model.Outbox{}).Error; err != nil {
            return err
        }
        return tx.Delete(&post).Error
    })
}

func (s *postService) ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]*model.Post, error) {
    offset, limit := pageWindow(page, pageSize)
    return s.postRepo.ListByAuthor(ctx, authorID, offset, limit)
}

// Like 点赞。重复点赞返回既有记录，不再发通知；
// 点赞与通知在同一事务内落地。
func (s *postService) Like(ctx context.Context, actorID, postID string) (*model.Like, error) {
    var out model.Like
    err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        var post model.Post
        if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
            if errors.Is(err, gorm.ErrRecordNotFound) {
                return ErrPostNotFound
            }
            return err
        }
        lk := model.Like{ID: uuid.New().String(), UserID: actorID, PostID: postID, CreatedAt: time.Now()}
        // 唯一键 (user, post) + DoNothing：并发点赞收敛为一条记录
        res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&lk)
        if res.Error != nil {
            return res.Error
        }
        if res.RowsAffected == 0 {
            existing, err := repository.NewLikeRepository(tx).Get(ctx, actorID, postID)
            if err != nil {
                return err
            }
            out = *existing
            return nil
        }
        out = lk
        // 给自己的帖子点赞不产生通知
        if post.AuthorID == actorID {
            return nil
        }
        n := model.Notification{
            ID:          uuid.New().String(),
            RecipientID: post.AuthorID,
            ActorID:     actorID,
            Verb:        model.VerbLikedPost,
            TargetType:  model.TargetTypePost,
            TargetID:    post.ID,
            CreatedAt:   time.Now(),
        }
        return tx.Create(&n).Error
    })
    if err != nil {
        return nil, err
    }
    return &out, nil
}

// Unlike 取消点赞。未点过赞是显式错误；历史通知不回收。
func (s *postService) Unlike(ctx context.Context, actorID, postID string) error {
    return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        var post model.Post
        if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
            if errors.Is(err, gorm.ErrRecordNotFound) {
                return ErrPostNotFound
            }
            return err
        }
        res := tx.Where("user_id = ? AND post_id = ?", actorID, postID).Delete(&model.Like{})
        if res.Error != nil {
            return res.Error
        }
        if res.RowsAffected == 0 {
            return ErrNotLiked
        }
        return nil
    })
}

// Comment 评论；评论与通知同事务落地，评论自己的帖子不发通知
func (s *postService) Comment(ctx context.Context, actorID, postID, content string) (*model.Comment, error) {
    now := time.Now()
    cm := &model.Comment{ID: uuid.New().String(), PostID: postID, AuthorID: actorID, Content: content, CreatedAt: now, UpdatedAt: now}
    err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        var post model.Post
        if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
            if errors.Is(err, gorm.ErrRecordNotFound) {
                return ErrPostNotFound
            }
            return err
        }
        if err := tx.Create(cm).Error; err != nil {
            return err
        }
        if post.AuthorID == actorID {
            return nil
        }
        n := model.Notification{
            ID:          uuid.New().String(),
            RecipientID: post.AuthorID,
            ActorID:     actorID,
            Verb:        model.VerbCommentedPost,
            TargetType:  model.TargetTypePost,
            TargetID:    post.ID,
            CreatedAt:   now,
        }
        return tx.Create(&n).Error
    })
    if err != nil {
        return nil, err
    }
    return cm, nil
}

func (s *postService) ListComments(ctx context.Context, postID string, page, pageSize int) ([]*model.Comment, error) {
    if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrPostNotFound
        }
        return nil, err
    }
    offset, limit := pageWindow(page, pageSize)
    return s.commentRepo.ListByPost(ctx, postID, offset, limit)
}

// DeleteComment 评论作者可删自己的评论，帖子作者可删帖子下任意评论
func (s *postService) DeleteComment(ctx context.Context, actorID, commentID string) error {
    return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        var cm model.Comment
        if err := tx.Where("id = ?", commentID).First(&cm).Error; err != nil {
            if errors.Is(err, gorm.ErrRecordNotFound) {
                return ErrCommentNotFound
            }
            return err
        }
        if cm.AuthorID != actorID {
            var post model.Post
            if err := tx.Where("id = ?", cm.PostID).First(&post).Error; err != nil {
                if errors.Is(err, gorm.ErrRecordNotFound) {
                    return ErrForbidden
                }
                return err
            }
            if post.AuthorID != actorID {
                return ErrForbidden
            }
        }
        return tx.Delete(&cm).Error
    })
}
