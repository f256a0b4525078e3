package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-feed/internal/model"
    "github.com/d60-Lab/social-feed/internal/repository"
)

func newRelService(t *testing.T) (RelationshipService, *gorm.DB) {
    db := setupTestDB(t)
    svc := NewRelationshipService(
        repository.NewUserRepository(db),
        repository.NewFollowRepository(db),
        repository.NewFanRepository(db),
        nil, nil,
    )
    return svc, db
}

func TestFollowSelfRejected(t *testing.T) {
    svc, _ := newRelService(t)
    ctx := context.Background()

    err := svc.Follow(ctx, "a", "a")
    assert.ErrorIs(t, err, ErrFollowSelf)

    err = svc.Unfollow(ctx, "a", "a")
    assert.ErrorIs(t, err, ErrFollowSelf)
}

func TestFollowUnknownTarget(t *testing.T) {
    svc, _ := newRelService(t)
    err := svc.Follow(context.Background(), "a", "ghost")
    assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowIdempotent(t *testing.T) {
    svc, db := newRelService(t)
    ctx := context.Background()
    seedUser(t, db, "a")
    seedUser(t, db, "b")

    require.NoError(t, svc.Follow(ctx, "a", "b"))
    require.NoError(t, svc.Follow(ctx, "a", "b"))

    var cnt int64
    require.NoError(t, db.Model(&model.Follow{}).Where("follower_id = ? AND followee_id = ?", "a", "b").Count(&cnt).Error)
    assert.EqualValues(t, 1, cnt)

    following, err := svc.ListFollowing(ctx, "a", 1, 10)
    require.NoError(t, err)
    assert.Equal(t, []string{"b"}, following)

    followers, err := svc.ListFollowers(ctx, "b", 1, 10)
    require.NoError(t, err)
    assert.Equal(t, []string{"a"}, followers)

    // 方向性：B 没有因此关注 A
    reverse, err := svc.IsFollowing(ctx, "b", "a")
    require.NoError(t, err)
    assert.False(t, reverse)
}

func TestUnfollowMissingEdgeIsNoop(t *testing.T) {
    svc, db := newRelService(t)
    ctx := context.Background()
    seedUser(t, db, "a")
    seedUser(t, db, "b")

    require.NoError(t, svc.Unfollow(ctx, "a", "b"))

    require.NoError(t, svc.Follow(ctx, "a", "b"))
    require.NoError(t, svc.Unfollow(ctx, "a", "b"))
    require.NoError(t, svc.Unfollow(ctx, "a", "b"))

    ok, err := svc.IsFollowing(ctx, "a", "b")
    require.NoError(t, err)
    assert.False(t, ok)
}

func TestFanReplication(t *testing.T) {
    db := setupTestDB(t)
    fanRepo := repository.NewFanRepository(db)
    replicator := NewFanReplicator(fanRepo, 100)
    stop := replicator.Start(2)
    defer func() { _ = stop(context.Background()) }()

    svc := NewRelationshipService(
        repository.NewUserRepository(db),
        repository.NewFollowRepository(db),
        fanRepo, replicator, nil,
    )
    ctx := context.Background()
    seedUser(t, db, "a")
    seedUser(t, db, "b")

    require.NoError(t, svc.Follow(ctx, "a", "b"))

    // 冗余粉丝边异步落地
    assert.Eventually(t, func() bool {
        fans, err := fanRepo.ListFans(ctx, "b", 0, 10)
        return err == nil && len(fans) == 1 && fans[0].FanID == "a"
    }, 2*time.Second, 20*time.Millisecond)
}
