package service

import (
    "context"
    "fmt"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-feed/internal/repository"
)

type feedFixture struct {
    db      *gorm.DB
    relSvc  RelationshipService
    postSvc PostService
    feedSvc FeedService
}

func newFeedFixture(t *testing.T, mode string) *feedFixture {
    db := setupTestDB(t)
    postRepo := repository.NewPostRepository(db)
    f := &feedFixture{
        db: db,
        relSvc: NewRelationshipService(
            repository.NewUserRepository(db),
            repository.NewFollowRepository(db),
            repository.NewFanRepository(db),
            nil, nil,
        ),
        postSvc: NewPostService(db, postRepo, repository.NewLikeRepository(db), repository.NewCommentRepository(db), mode == FeedModePush),
        feedSvc: NewFeedService(postRepo, repository.NewInboxRepository(db), mode, 20),
    }
    return f
}

func TestFeedOnlyContainsFollowedAuthors(t *testing.T) {
    f := newFeedFixture(t, FeedModePull)
    ctx := context.Background()
    seedUser(t, f.db, "u1")
    seedUser(t, f.db, "u2")
    seedUser(t, f.db, "u3")

    require.NoError(t, f.relSvc.Follow(ctx, "u1", "u2"))
    p1, err := f.postSvc.Create(ctx, "u2", "from u2")
    require.NoError(t, err)
    _, err = f.postSvc.Create(ctx, "u3", "from u3, not followed")
    require.NoError(t, err)
    _, err = f.postSvc.Create(ctx, "u1", "my own post")
    require.NoError(t, err)

    page, err := f.feedSvc.Timeline(ctx, "u1", 10, "")
    require.NoError(t, err)
    require.Len(t, page.Posts, 1)
    assert.Equal(t, p1.ID, page.Posts[0].ID)

    // 作者自己的 feed 不含自己的帖子
    page, err = f.feedSvc.Timeline(ctx, "u2", 10, "")
    require.NoError(t, err)
    assert.Empty(t, page.Posts)
}

func TestFeedNewestFirstWithCursor(t *testing.T) {
    f := newFeedFixture(t, FeedModePull)
    ctx := context.Background()
    seedUser(t, f.db, "reader")
    seedUser(t, f.db, "author")
    require.NoError(t, f.relSvc.Follow(ctx, "reader", "author"))

    ids := make([]string, 0, 5)
    for i := 0; i < 5; i++ {
        p, err := f.postSvc.Create(ctx, "author", fmt.Sprintf("post %d", i))
        require.NoError(t, err)
        ids = append(ids, p.ID)
        time.Sleep(2 * time.Millisecond) // 保证时间戳单调
    }

    page1, err := f.feedSvc.Timeline(ctx, "reader", 2, "")
    require.NoError(t, err)
    require.Len(t, page1.Posts, 2)
    assert.Equal(t, ids[4], page1.Posts[0].ID)
    assert.Equal(t, ids[3], page1.Posts[1].ID)
    require.NotEmpty(t, page1.NextCursor)

    page2, err := f.feedSvc.Timeline(ctx, "reader", 2, page1.NextCursor)
    require.NoError(t, err)
    require.Len(t, page2.Posts, 2)
    assert.Equal(t, ids[2], page2.Posts[0].ID)
    assert.Equal(t, ids[1], page2.Posts[1].ID)

    page3, err := f.feedSvc.Timeline(ctx, "reader", 2, page2.NextCursor)
    require.NoError(t, err)
    require.Len(t, page3.Posts, 1)
    assert.Equal(t, ids[0], page3.Posts[0].ID)
    assert.Empty(t, page3.NextCursor)
}

func TestFeedInvalidCursor(t *testing.T) {
    f := newFeedFixture(t, FeedModePull)
    seedUser(t, f.db, "reader")
    _, err := f.feedSvc.Timeline(context.Background(), "reader", 10, "not-base64!!")
    assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestFeedUnaffectedByUnlike(t *testing.T) {
    f := newFeedFixture(t, FeedModePull)
    ctx := context.Background()
    seedUser(t, f.db, "u1")
    seedUser(t, f.db, "u2")
    require.NoError(t, f.relSvc.Follow(ctx, "u1", "u2"))
    p, err := f.postSvc.Create(ctx, "u2", "p")
    require.NoError(t, err)

    _, err = f.postSvc.Like(ctx, "u1", p.ID)
    require.NoError(t, err)
    require.NoError(t, f.postSvc.Unlike(ctx, "u1", p.ID))

    page, err := f.feedSvc.Timeline(ctx, "u1", 10, "")
    require.NoError(t, err)
    require.Len(t, page.Posts, 1)
}

func TestPushFeedViaFanout(t *testing.T) {
    f := newFeedFixture(t, FeedModePush)
    ctx := context.Background()
    seedUser(t, f.db, "reader")
    seedUser(t, f.db, "author")
    fanRepo := repository.NewFanRepository(f.db)

    require.NoError(t, f.relSvc.Follow(ctx, "reader", "author"))
    // 推模式下 worker 依赖冗余粉丝表；测试里同步补上
    require.NoError(t, fanRepo.Create(ctx, "author", "reader"))

    p, err := f.postSvc.Create(ctx, "author", "pushed")
    require.NoError(t, err)

    worker := NewFanoutWorker(f.db, fanRepo, 1, 100, 10, time.Millisecond)
    require.NoError(t, worker.ProcessOnce(ctx))

    page, err := f.feedSvc.Timeline(ctx, "reader", 10, "")
    require.NoError(t, err)
    require.Len(t, page.Posts, 1)
    assert.Equal(t, p.ID, page.Posts[0].ID)

    // 扇出幂等：重复处理不产生重复 inbox 项
    require.NoError(t, worker.ProcessOnce(ctx))
    page, err = f.feedSvc.Timeline(ctx, "reader", 10, "")
    require.NoError(t, err)
    assert.Len(t, page.Posts, 1)
}
