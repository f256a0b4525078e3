package repository

import (
    "context"
    "fmt"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/social-feed/internal/model"
)

func setupRepoDB(t *testing.T) *gorm.DB {
    t.Helper()
    dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
    db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
        Logger: gormlogger.Default.LogMode(gormlogger.Silent),
    })
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&model.User{}, &model.Follow{}, &model.Fan{}))
    return db
}

func TestFollowCreateIdempotent(t *testing.T) {
    db := setupRepoDB(t)
    repo := NewFollowRepository(db)
    ctx := context.Background()

    require.NoError(t, repo.Create(ctx, "a", "b"))
    require.NoError(t, repo.Create(ctx, "a", "b"))

    var cnt int64
    require.NoError(t, db.Model(&model.Follow{}).Count(&cnt).Error)
    assert.EqualValues(t, 1, cnt)
}

func TestFollowDeleteMissingIsNoop(t *testing.T) {
    db := setupRepoDB(t)
    repo := NewFollowRepository(db)
    ctx := context.Background()

    require.NoError(t, repo.Delete(ctx, "a", "b"))

    ok, err := repo.Exists(ctx, "a", "b")
    require.NoError(t, err)
    assert.False(t, ok)
}

func TestFollowListBothDirections(t *testing.T) {
    db := setupRepoDB(t)
    repo := NewFollowRepository(db)
    ctx := context.Background()

    require.NoError(t, repo.Create(ctx, "a", "b"))
    require.NoError(t, repo.Create(ctx, "a", "c"))
    require.NoError(t, repo.Create(ctx, "c", "b"))

    following, err := repo.ListFollowings(ctx, "a", 0, 10)
    require.NoError(t, err)
    assert.Len(t, following, 2)

    followers, err := repo.ListFollowers(ctx, "b", 0, 10)
    require.NoError(t, err)
    assert.Len(t, followers, 2)
}

func TestFollowDeleteAllOf(t *testing.T) {
    db := setupRepoDB(t)
    repo := NewFollowRepository(db)
    ctx := context.Background()

    require.NoError(t, repo.Create(ctx, "a", "b"))
    require.NoError(t, repo.Create(ctx, "b", "a"))
    require.NoError(t, repo.Create(ctx, "b", "c"))

    require.NoError(t, repo.DeleteAllOf(ctx, "a"))

    var cnt int64
    require.NoError(t, db.Model(&model.Follow{}).Count(&cnt).Error)
    assert.EqualValues(t, 1, cnt)

    left, err := repo.ListFollowings(ctx, "b", 0, 10)
    require.NoError(t, err)
    require.Len(t, left, 1)
    assert.Equal(t, "c", left[0].FolloweeID)
}
