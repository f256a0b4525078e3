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

// 压关注写路径：异步冗余（follows 落地 + replicator 补 fans）
// 对比同步双写，顺带量 replicator 的落地延迟与队列水位。
func main() {
    cfg := must(config.Load())
    db := must(database.InitDB(cfg))

    userRepo := repository.NewUserRepository(db)
    followRepo := repository.NewFollowRepository(db)
    fanRepo := repository.NewFanRepository(db)
    replicator := service.NewFanReplicator(fanRepo, 100000)
    stop := replicator.Start(8)
    relSvc := service.NewRelationshipService(userRepo, followRepo, fanRepo, replicator, nil)

    ctx := context.Background()

    N := envInt("N", 10000)
    CONC := envInt("CONC", 1)
    PAGE := envInt("PAGE", 50)

    // 一个大 V，N 个用户关注它
    celeb := model.User{ID: "u0", Username: "u0", Email: "u0@example.com", Password: "p"}
    _ = db.Where("id = ?", celeb.ID).FirstOrCreate(&celeb).Error
    users := make([]model.User, N)
    batch := 1000
    for i := 0; i < N; i++ {
        id := uuid.New().String()
        users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", Password: "p"}
        if (i+1)%batch == 0 {
            sub := users[i+1-batch : i+1]
            _ = db.Create(&sub).Error
        }
    }
    if N%batch != 0 {
        sub := users[N-N%batch:]
        _ = db.Create(&sub).Error
    }

    asyncRecs := make([]time.Duration, 0, N)
    asyncCh := make(chan time.Duration, N)

    // replicator 落地延迟采样
    repMetrics := replicator.Metrics()
    repRecs := make([]time.Duration, 0, N)
    doneRep := make(chan struct{})
    go func() {
        timeout := time.NewTimer(5 * time.Minute)
        defer timeout.Stop()
        for {
            select {
            case d := <-repMetrics:
                repRecs = append(repRecs, d)
            case <-doneRep:
                return
            case <-timeout.C:
                return
            }
        }
    }()

    // 队列水位采样
    maxQ := 0
    quitSample := make(chan struct{})
    go func() {
        ticker := time.NewTicker(50 * time.Millisecond)
        defer ticker.Stop()
        for {
            select {
            case <-ticker.C:
                if q := replicator.QueueLen(); q > maxQ { maxQ = q }
            case <-quitSample:
                return
            }
        }
    }()

    // CONC 个 worker 发 N 次关注
    t0 := time.Now()
    workers := CONC
    if workers > N { workers = N }
    doneCh := make(chan struct{}, workers)
    feed := make(chan int, N)
    for i := 0; i < N; i++ { feed <- i }
    close(feed)
    for w := 0; w < workers; w++ {
        go func() {
            for i := range feed {
                st := time.Now()
                _ = relSvc.Follow(ctx, users[i].ID, celeb.ID)
                asyncCh <- time.Since(st)
            }
            doneCh <- struct{}{}
        }()
    }
    for w := 0; w < workers; w++ { <-doneCh }
    close(asyncCh)
    for d := range asyncCh { asyncRecs = append(asyncRecs, d) }
    asyncDur := time.Since(t0)
    close(quitSample)

    drainStart := time.Now()
    time.Sleep(500 * time.Millisecond)

    // 对照组：follows + fans 同步双写
    t1 := time.Now()
    for i := 0; i < N; i++ {
        _ = followRepo.Create(ctx, celeb.ID, users[i].ID)
        _ = fanRepo.Create(ctx, users[i].ID, celeb.ID)
    }
    syncDur := time.Since(t1)

    // 读路径：fans 冗余表 vs follows 事实表
    q0 := time.Now()
    _, _ = fanRepo.ListFans(ctx, celeb.ID, 0, PAGE)
    fansDur := time.Since(q0)

    q1 := time.Now()
    _, _ = followRepo.ListFollowers(ctx, celeb.ID, 0, PAGE)
    follDur := time.Since(q1)

    // stop 内部会等队列清空
    _ = stop(context.Background())
    drainDur := time.Since(drainStart)
    close(doneRep)

    fmt.Printf("N=%d, CONC=%d, PAGE=%d\n", N, CONC, PAGE)
    fmt.Printf("Async follow latency total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
        asyncDur, asyncDur/time.Duration(N), pct(asyncRecs, 0.50), pct(asyncRecs, 0.95), pct(asyncRecs, 0.99))
    fmt.Printf("Sync (2 writes) total: %v, per op: %v\n", syncDur, syncDur/time.Duration(N))
    fmt.Printf("Query fans(%d) latency: %v\n", PAGE, fansDur)
    fmt.Printf("Query followers(%d) latency: %v\n", PAGE, follDur)
    if len(repRecs) > 0 {
        fmt.Printf("Replication landing: samples=%d, p50=%v, p95=%v, p99=%v, maxQueue=%d, drain=%v\n",
            len(repRecs), pct(repRecs, 0.50), pct(repRecs, 0.95), pct(repRecs, 0.99), maxQ, drainDur)
    }
}
