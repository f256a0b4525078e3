package service

import (
    "fmt"
    "testing"

    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/social-feed/internal/model"
)

// 每个测试独立的 in-memory 库；cache=shared 防止多连接各开一库
func setupTestDB(t *testing.T) *gorm.DB {
    t.Helper()
    dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
    db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
        TranslateError: true,
        Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
    })
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(
        &model.User{}, &model.Follow{}, &model.Fan{},
        &model.Post{}, &model.Comment{}, &model.Like{}, &model.Notification{},
        &model.Inbox{}, &model.Outbox{},
    ))
    return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) *model.User {
    t.Helper()
    u := &model.User{ID: id, Username: id, Email: id + "@example.com", Password: "p"}
    require.NoError(t, db.Create(u).Error)
    return u
}
