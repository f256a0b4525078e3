package service

import (
    "context"
    "encoding/base64"
    "fmt"
    "strconv"
    "strings"
    "time"

    "github.com/d60-Lab/social-feed/internal/model"
    "github.com/d60-Lab/social-feed/internal/repository"
)

// 时间线读取模式
const (
    FeedModePull = "pull"
    FeedModePush = "push"
)

// FeedPage 一页时间线与下一页游标（空串表示没有更多）
type FeedPage struct {
    Posts      []*model.Post `json:"posts"`
    NextCursor string        `json:"next_cursor,omitempty"`
}

// FeedService 时间线服务。feed 是派生只读视图，不落库。
type FeedService interface {
    Timeline(ctx context.Context, userID string, pageSize int, cursor string) (*FeedPage, error)
}

type feedService struct {
    postRepo        repository.PostRepository
    inboxRepo       repository.InboxRepository
    mode            string
    defaultPageSize int
}

func NewFeedService(postRepo repository.PostRepository, inboxRepo repository.InboxRepository, mode string, defaultPageSize int) FeedService {
    if mode != FeedModePush {
        mode = FeedModePull
    }
    if defaultPageSize <= 0 {
        defaultPageSize = 20
    }
    return &feedService{postRepo: postRepo, inboxRepo: inboxRepo, mode: mode, defaultPageSize: defaultPageSize}
}

func (s *feedService) Timeline(ctx context.Context, userID string, pageSize int, cursor string) (*FeedPage, error) {
    if pageSize <= 0 {
        pageSize = s.defaultPageSize
    }
    if s.mode == FeedModePush {
        return s.timelinePush(ctx, userID, pageSize, cursor)
    }
    return s.timelinePull(ctx, userID, pageSize, cursor)
}

// timelinePull 拉模型：直接在 follows × posts 上做 keyset 查询
func (s *feedService) timelinePull(ctx context.Context, userID string, pageSize int, cursor string) (*FeedPage, error) {
    var beforeAt time.Time
    var beforeID string
    if cursor != "" {
        score, id, err := decodeCursor(cursor)
        if err != nil {
            return nil, err
        }
        beforeAt = time.Unix(0, score)
        beforeID = id
    }
    posts, err := s.postRepo.FeedPage(ctx, userID, pageSize, beforeAt, beforeID)
    if err != nil {
        return nil, err
    }
    page := &FeedPage{Posts: posts}
    if len(posts) == pageSize {
        last := posts[len(posts)-1]
        page.NextCursor = encodeCursor(last.CreatedAt.UnixNano(), last.ID)
    }
    return page, nil
}

// timelinePush 推模型：读预先扇出好的 inbox，再按序补全帖子
func (s *feedService) timelinePush(ctx context.Context, userID string, pageSize int, cursor string) (*FeedPage, error) {
    var beforeScore int64
    var beforePostID string
    if cursor != "" {
        score, id, err := decodeCursor(cursor)
        if err != nil {
            return nil, err
        }
        beforeScore = score
        beforePostID = id
    }
    items, err := s.inboxRepo.ListTimeline(ctx, userID, pageSize, beforeScore, beforePostID)
    if err != nil {
        return nil, err
    }
    ids := make([]string, len(items))
    for i, it := range items {
        ids[i] = it.PostID
    }
    posts, err := s.postRepo.ListByIDs(ctx, ids)
    if err != nil {
        return nil, err
    }
    byID := make(map[string]*model.Post, len(posts))
    for _, p := range posts {
        byID[p.ID] = p
    }
    ordered := make([]*model.Post, 0, len(ids))
    for _, id := range ids {
        if p, ok := byID[id]; ok {
            ordered = append(ordered, p)
        }
    }
    page := &FeedPage{Posts: ordered}
    if len(items) == pageSize {
        last := items[len(items)-1]
        page.NextCursor = encodeCursor(last.Score, last.PostID)
    }
    return page, nil
}

// 游标是 "score:post_id" 的 base64，score 为纳秒时间戳
func encodeCursor(score int64, id string) string {
    return base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%d:%s", score, id)))
}

func decodeCursor(cursor string) (int64, string, error) {
    raw, err := base64.RawURLEncoding.DecodeString(cursor)
    if err != nil {
        return 0, "", ErrInvalidCursor
    }
    parts := strings.SplitN(string(raw), ":", 2)
    if len(parts) != 2 {
        return 0, "", ErrInvalidCursor
    }
    score, err := strconv.ParseInt(parts[0], 10, 64)
    if err != nil {
        return 0, "", ErrInvalidCursor
    }
    return score, parts[1], nil
}
