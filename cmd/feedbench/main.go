package main

import (
    "context"
    "fmt"
    "math"
    "os"
    "sort"
    "strconv"
    "time"

    "github.com/google/uuid"

    "github.com/d60-Lab/social-feed/config"
    "github.com/d60-Lab/social-feed/internal/model"
    "github.com/d60-Lab/social-feed/internal/repository"
    "github.com/d60-Lab/social-feed/internal/service"
    "github.com/d60-Lab/social-feed/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
    if len(vs) == 0 { return 0 }
    xs := append([]time.Duration(nil), vs...)
    sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
    k := int(math.Ceil(p*float64(len(xs)))) - 1
    if k < 0 { k = 0 }
    if k >= len(xs) { k = len(xs)-1 }
    return xs[k]
}

func envInt(name string, def int) int {
    if s := os.Getenv(name); s != "" {
        if v, err := strconv.Atoi(s); err == nil && v > 0 { return v }
    }
    return def
}

// 对比拉模型与推模型的时间线读取：先造一个大 V 和 N 个粉丝，
// 发 POSTS 篇帖子，推模式扇出落 inbox 后分别压两条读路径。
func main() {
    cfg := must(config.Load())
    db := must(database.InitDB(cfg))

    followRepo := repository.NewFollowRepository(db)
    fanRepo := repository.NewFanRepository(db)
    postRepo := repository.NewPostRepository(db)
    likeRepo := repository.NewLikeRepository(db)
    inboxRepo := repository.NewInboxRepository(db)

    N := envInt("N", 20000)
    POSTS := envInt("POSTS", 100)
    WORKERS := envInt("WORKERS", 8)
    BATCH := envInt("BATCH", 1000)
    CLAIM := envInt("CLAIM", 64)
    PAGE := envInt("PAGE", 20)
    READS := envInt("READS", 200)

    ctx := context.Background()

    celeb := model.User{ID: "u0", Username: "u0", Email: "u0@example.com", Password: "p"}
    _ = db.Where("id = ?", celeb.ID).FirstOrCreate(&celeb).Error

    fanIDs := make([]string, N)
    batchUsers := make([]model.User, 0, 1000)
    for i := 0; i < N; i++ {
        id := uuid.New().String()
        fanIDs[i] = id
        batchUsers = append(batchUsers, model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", Password: "p"})
        if len(batchUsers) == 1000 || i == N-1 {
            _ = db.Create(&batchUsers).Error
            batchUsers = batchUsers[:0]
        }
        _ = followRepo.Create(ctx, id, celeb.ID)
        _ = fanRepo.Create(ctx, celeb.ID, id)
    }

    // 发帖（写 outbox）并扇出
    postSvc := service.NewPostService(db, postRepo, likeRepo, repository.NewCommentRepository(db), true)
    fanout := service.NewFanoutWorker(db, fanRepo, WORKERS, BATCH, CLAIM, 20*time.Millisecond)
    stopFanout := fanout.Start()

    latCh := fanout.Metrics()
    lats := make([]time.Duration, 0, POSTS)
    doneLat := make(chan struct{})
    go func() {
        for {
            select {
            case d := <-latCh:
                lats = append(lats, d)
            case <-doneLat:
                return
            }
        }
    }()

    t0 := time.Now()
    for i := 0; i < POSTS; i++ {
        _ = must(postSvc.Create(ctx, celeb.ID, fmt.Sprintf("post %d", i)))
    }
    publishDur := time.Since(t0)

    // 等 outbox 清空
    for {
        var pending int64
        _ = db.Model(&model.Outbox{}).Where("status <> ?", model.OutboxStatusDone).Count(&pending).Error
        if pending == 0 { break }
        time.Sleep(100 * time.Millisecond)
    }
    fanoutDur := time.Since(t0)
    _ = stopFanout(ctx)
    close(doneLat)

    // 压两条读路径
    pullSvc := service.NewFeedService(postRepo, inboxRepo, service.FeedModePull, PAGE)
    pushSvc := service.NewFeedService(postRepo, inboxRepo, service.FeedModePush, PAGE)

    pullRecs := make([]time.Duration, 0, READS)
    pushRecs := make([]time.Duration, 0, READS)
    for i := 0; i < READS; i++ {
        uid := fanIDs[i%len(fanIDs)]
        st := time.Now()
        _, _ = pullSvc.Timeline(ctx, uid, PAGE, "")
        pullRecs = append(pullRecs, time.Since(st))
        st = time.Now()
        _, _ = pushSvc.Timeline(ctx, uid, PAGE, "")
        pushRecs = append(pushRecs, time.Since(st))
    }

    fmt.Printf("N=%d POSTS=%d WORKERS=%d BATCH=%d CLAIM=%d PAGE=%d\n", N, POSTS, WORKERS, BATCH, CLAIM, PAGE)
    fmt.Printf("Publish total: %v, per post: %v\n", publishDur, publishDur/time.Duration(POSTS))
    fmt.Printf("Fanout complete in: %v\n", fanoutDur)
    if len(lats) > 0 {
        fmt.Printf("Outbox->inbox latency: p50=%v p95=%v p99=%v\n", pct(lats, 0.50), pct(lats, 0.95), pct(lats, 0.99))
    }
    fmt.Printf("Pull feed read: p50=%v p95=%v p99=%v\n", pct(pullRecs, 0.50), pct(pullRecs, 0.95), pct(pullRecs, 0.99))
    fmt.Printf("Push feed read: p50=%v p95=%v p99=%v\n", pct(pushRecs, 0.50), pct(pushRecs, 0.95), pct(pushRecs, 0.99))
}
