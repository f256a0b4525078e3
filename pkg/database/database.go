package database

import (
    "fmt"

    "gorm.io/driver/postgres"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/social-feed/config"
    "github.com/d60-Lab/social-feed/internal/model"
)

// InitDB 按配置打开数据库并迁移表结构
func InitDB(cfg *config.Config) (*gorm.DB, error) {
    var dial gorm.Dialector
    switch cfg.Database.Driver {
    case "sqlite":
        dial = sqlite.Open(cfg.Database.DSN)
    case "postgres":
        dial = postgres.Open(cfg.Database.DSN)
    default:
        return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
    }
    db, err := gorm.Open(dial, &gorm.Config{
        TranslateError: true,
        Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
    })
    if err != nil {
        return nil, err
    }
    if err := Migrate(db); err != nil {
        return nil, err
    }
    return db, nil
}

// Migrate 迁移全部模型
func Migrate(db *gorm.DB) error {
    return db.AutoMigrate(
        &model.User{},
        &model.Follow{},
        &model.Fan{},
        &model.Post{},
        &model.Comment{},
        &model.Like{},
        &model.Notification{},
        &model.Inbox{},
        &model.Outbox{},
    )
}
