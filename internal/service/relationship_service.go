package service

import (
    "context"
    "errors"

    "github.com/d60-Lab/social-feed/internal/cache"
    "github.com/d60-Lab/social-feed/internal/repository"
)

var (
    ErrFollowSelf = errors.New("cannot follow self")
)

// RelationshipService 关系链服务
type RelationshipService interface {
    Follow(ctx context.Context, fromUserID, toUserID string) error
    Unfollow(ctx context.Context, fromUserID, toUserID string) error
    IsFollowing(ctx context.Context, fromUserID, toUserID string) (bool, error)
    ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error)
    ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]string, error)
    // FollowerPage 走 redis 缓存的粉丝页（带用户快照）
    FollowerPage(ctx context.Context, userID string, page, pageSize int) ([]cache.FollowerSnapshot, error)
}

type relationshipService struct {
    userRepo      repository.UserRepository
    followRepo    repository.FollowRepository
    fanRepo       repository.FanRepository
    replicator    *FanReplicator
    followerCache *cache.FollowerCache
}

func NewRelationshipService(
    userRepo repository.UserRepository,
    followRepo repository.FollowRepository,
    fanRepo repository.FanRepository,
    replicator *FanReplicator,
    followerCache *cache.FollowerCache,
) RelationshipService {
    return &relationshipService{
        userRepo:      userRepo,
        followRepo:    followRepo,
        fanRepo:       fanRepo,
        replicator:    replicator,
        followerCache: followerCache,
    }
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
    if fromUserID == toUserID {
        return ErrFollowSelf
    }
    ok, err := s.userRepo.Exists(ctx, toUserID)
    if err != nil {
        return err
    }
    if !ok {
        return ErrUserNotFound
    }
    // 幂等：唯一键 (follower, followee) 下重复关注收敛为一条边
    if err := s.followRepo.Create(ctx, fromUserID, toUserID); err != nil {
        return err
    }
    if s.replicator != nil {
        s.replicator.EnqueueAdd(toUserID, fromUserID)
    }
    if s.followerCache != nil {
        s.followerCache.Invalidate(ctx, toUserID)
    }
    return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
    if fromUserID == toUserID {
        return ErrFollowSelf
    }
    // 删除不存在的边是 no-op，与 Follow 的幂等语义对称
    if err := s.followRepo.Delete(ctx, fromUserID, toUserID); err != nil {
        return err
    }
    if s.replicator != nil {
        s.replicator.EnqueueRemove(toUserID, fromUserID)
    }
    if s.followerCache != nil {
        s.followerCache.Invalidate(ctx, toUserID)
    }
    return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, fromUserID, toUserID string) (bool, error) {
    return s.followRepo.Exists(ctx, fromUserID, toUserID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
    offset, limit := pageWindow(page, pageSize)
    items, err := s.followRepo.ListFollowings(ctx, userID, offset, limit)
    if err != nil {
        return nil, err
    }
    res := make([]string, len(items))
    for i, it := range items {
        res[i] = it.FolloweeID
    }
    return res, nil
}

// ListFollowers 读 follows 事实表；fans 冗余表只服务扇出
func (s *relationshipService) ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
    offset, limit := pageWindow(page, pageSize)
    items, err := s.followRepo.ListFollowers(ctx, userID, offset, limit)
    if err != nil {
        return nil, err
    }
    res := make([]string, len(items))
    for i, it := range items {
        res[i] = it.FollowerID
    }
    return res, nil
}

func (s *relationshipService) FollowerPage(ctx context.Context, userID string, page, pageSize int) ([]cache.FollowerSnapshot, error) {
    if s.followerCache == nil {
        ids, err := s.ListFollowers(ctx, userID, page, pageSize)
        if err != nil {
            return nil, err
        }
        res := make([]cache.FollowerSnapshot, 0, len(ids))
        for _, id := range ids {
            u, err := s.userRepo.GetByID(ctx, id)
            if err != nil {
                continue
            }
            res = append(res, cache.FollowerSnapshot{ID: u.ID, Username: u.Username, Bio: u.Bio, AvatarURL: u.AvatarURL})
        }
        return res, nil
    }
    return s.followerCache.FetchFollowers(ctx, userID, page, pageSize)
}

func pageWindow(page, pageSize int) (offset, limit int) {
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 10
    }
    return (page - 1) * pageSize, pageSize
}
