package service

import (
    "context"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/social-feed/internal/model"
    "github.com/d60-Lab/social-feed/internal/repository"
    "github.com/d60-Lab/social-feed/pkg/logger"
)

// FanoutWorker 推模式扇出：从 outbox 认领 pending 事件，
// 按粉丝分页写 inbox 时间线
type FanoutWorker struct {
    db           *gorm.DB
    fanRepo      repository.FanRepository
    batchSize    int
    claimLimit   int
    pollInterval time.Duration
    workers      int
    metricsCh    chan time.Duration // outbox->processed latency
}

func NewFanoutWorker(db *gorm.DB, fanRepo repository.FanRepository, workers, batchSize, claimLimit int, pollInterval time.Duration) *FanoutWorker {
    if workers <= 0 { workers = 4 }
    if batchSize <= 0 { batchSize = 500 }
    if claimLimit <= 0 { claimLimit = 128 }
    if pollInterval <= 0 { pollInterval = 50 * time.Millisecond }
    return &FanoutWorker{db: db, fanRepo: fanRepo, workers: workers, batchSize: batchSize, claimLimit: claimLimit, pollInterval: pollInterval, metricsCh: make(chan time.Duration, 65536)}
}

func (w *FanoutWorker) Metrics() <-chan time.Duration { return w.metricsCh }

// Start 启动若干 worker 轮询处理 outbox；返回停止函数。
func (w *FanoutWorker) Start() func(context.Context) error {
    stop := make(chan struct{})
    for i := 0; i < w.workers; i++ {
        go w.loop(stop)
    }
    return func(ctx context.Context) error { close(stop); return nil }
}

func (w *FanoutWorker) loop(stop <-chan struct{}) {
    ticker := time.NewTicker(w.pollInterval)
    defer ticker.Stop()
    for {
        select {
        case <-stop:
            return
        case <-ticker.C:
            if err := w.ProcessOnce(context.Background()); err != nil {
                logger.Warn("fanout tick failed", zap.Error(err))
            }
        }
    }
}

// ProcessOnce claim 一批 pending outbox 并扇出
func (w *FanoutWorker) ProcessOnce(ctx context.Context) error {
    type ob struct {
        ID        string
        PostID    string
        AuthorID  string
        CreatedAt time.Time
    }
    // postgres 用 SKIP LOCKED 防止多 worker 重复认领；sqlite（测试）无此语法
    claimSQL := `
        SELECT id, post_id, author_id, created_at
        FROM outbox
        WHERE status = ?
        ORDER BY created_at
        LIMIT ?`
    if w.db.Dialector.Name() == "postgres" {
        claimSQL += `
        FOR UPDATE SKIP LOCKED`
    }
    var batch []ob
    err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        if err := tx.Raw(claimSQL, model.OutboxStatusPending, w.claimLimit).Scan(&batch).Error; err != nil {
            return err
        }
        if len(batch) == 0 {
            return nil
        }
        ids := make([]string, len(batch))
        for i, b := range batch {
            ids[i] = b.ID
        }
        return tx.Model(&model.Outbox{}).Where("id IN ?", ids).Update("status", model.OutboxStatusProcessing).Error
    })
    if err != nil {
        return err
    }
    if len(batch) == 0 {
        return nil
    }

    for _, b := range batch {
        // 按页取粉丝，批量 upsert inbox
        offset := 0
        page := w.batchSize
        totalWritten := int64(0)
        for {
            fans, err := w.fanRepo.ListFans(ctx, b.AuthorID, offset, page)
            if err != nil {
                logger.Warn("fanout list fans failed", zap.String("author", b.AuthorID), zap.Error(err))
                break
            }
            if len(fans) == 0 {
                break
            }
            records := make([]model.Inbox, 0, len(fans))
            score := b.CreatedAt.UnixNano()
            now := time.Now()
            for _, f := range fans {
                records = append(records, model.Inbox{ID: uuid.New().String(), UserID: f.FanID, PostID: b.PostID, Score: score, CreatedAt: now})
            }
            if err := w.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&records).Error; err != nil {
                logger.Warn("fanout inbox write failed", zap.String("post", b.PostID), zap.Error(err))
            }
            totalWritten += int64(len(records))
            if len(fans) < page {
                break
            }
            offset += page
        }
        now := time.Now()
        if err := w.db.WithContext(ctx).Model(&model.Outbox{}).
            Where("id = ?", b.ID).
            Updates(map[string]any{"status": model.OutboxStatusDone, "processed_at": now, "fanout_count": totalWritten}).Error; err != nil {
            logger.Warn("fanout outbox finalize failed", zap.String("outbox", b.ID), zap.Error(err))
        }
        if !b.CreatedAt.IsZero() {
            select {
            case w.metricsCh <- time.Since(b.CreatedAt):
            default:
            }
        }
    }
    return nil
}
