package main

import (
    "context"
    "fmt"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/social-feed/config"
    "github.com/d60-Lab/social-feed/internal/api"
    "github.com/d60-Lab/social-feed/internal/api/handler"
    "github.com/d60-Lab/social-feed/internal/cache"
    "github.com/d60-Lab/social-feed/internal/repository"
    "github.com/d60-Lab/social-feed/internal/service"
    "github.com/d60-Lab/social-feed/pkg/database"
    "github.com/d60-Lab/social-feed/pkg/logger"
    "github.com/d60-Lab/social-feed/pkg/tracing"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func main() {
    cfg := must(config.Load())
    if err := logger.Init(cfg.Log.Level); err != nil {
        panic(err)
    }
    defer logger.Sync()

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            logger.Warn("sentry init failed", zap.Error(err))
        }
        defer sentry.Flush(2 * time.Second)
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    shutdownTracer := must(tracing.Init(ctx, cfg))
    defer func() { _ = shutdownTracer(context.Background()) }()

    db := must(database.InitDB(cfg))

    rdb := redis.NewClient(&redis.Options{
        Addr:     cfg.Redis.Addr,
        Password: cfg.Redis.Password,
        DB:       cfg.Redis.DB,
    })
    var followerCache *cache.FollowerCache
    if err := rdb.Ping(ctx).Err(); err != nil {
        // 缓存不可用时退化为直查数据库
        logger.Warn("redis unreachable, follower cache disabled", zap.Error(err))
    } else {
        followerCache = cache.NewFollowerCache(db, rdb, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second)
    }

    userRepo := repository.NewUserRepository(db)
    followRepo := repository.NewFollowRepository(db)
    fanRepo := repository.NewFanRepository(db)
    postRepo := repository.NewPostRepository(db)
    likeRepo := repository.NewLikeRepository(db)
    commentRepo := repository.NewCommentRepository(db)
    notifRepo := repository.NewNotificationRepository(db)
    inboxRepo := repository.NewInboxRepository(db)

    replicator := service.NewFanReplicator(fanRepo, cfg.Feed.Fanout.ReplicatorQueue)
    stopReplicator := replicator.Start(cfg.Feed.Fanout.ReplicatorWorker)
    defer func() { _ = stopReplicator(context.Background()) }()

    pushMode := cfg.Feed.Mode == service.FeedModePush
    if pushMode {
        fanout := service.NewFanoutWorker(db, fanRepo,
            cfg.Feed.Fanout.Workers, cfg.Feed.Fanout.BatchSize, cfg.Feed.Fanout.ClaimLimit,
            time.Duration(cfg.Feed.Fanout.PollIntervalMS)*time.Millisecond)
        stopFanout := fanout.Start()
        defer func() { _ = stopFanout(context.Background()) }()
    }

    accountSvc := service.NewAccountService(db, userRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour)
    relSvc := service.NewRelationshipService(userRepo, followRepo, fanRepo, replicator, followerCache)
    postSvc := service.NewPostService(db, postRepo, likeRepo, commentRepo, pushMode)
    feedSvc := service.NewFeedService(postRepo, inboxRepo, cfg.Feed.Mode, cfg.Feed.PageSize)
    notifSvc := service.NewNotificationService(notifRepo)

    h := handler.New(accountSvc, relSvc, postSvc, feedSvc, notifSvc)
    router := api.NewRouter(cfg, h)

    srv := &http.Server{
        Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
        Handler: router,
    }
    go func() {
        logger.Info("server listening", zap.Int("port", cfg.Server.Port), zap.String("feed_mode", cfg.Feed.Mode))
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            logger.Error("server exited", zap.Error(err))
            stop()
        }
    }()

    <-ctx.Done()
    logger.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        logger.Error("graceful shutdown failed", zap.Error(err))
    }
}
