package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/model"
)

// FollowerSnapshot contains minimal user info required by follower pages.
type FollowerSnapshot struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// FollowerCache serves follower-list pages through a Redis list index plus
// per-user snapshot keys, falling back to the follow graph on miss.
type FollowerCache struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
}

func NewFollowerCache(db *gorm.DB, cache *redis.Client, ttl time.Duration) *FollowerCache {
	return &FollowerCache{db: db, cache: cache, ttl: ttl}
}

func indexKey(userID string) string { return fmt.Sprintf("followers:index:%s", userID) }
func userKey(userID string) string  { return fmt.Sprintf("user:%s", userID) }

// FetchFollowers returns one page of followers of userID, newest first.
func (s *FollowerCache) FetchFollowers(ctx context.Context, userID string, page, size int) ([]FollowerSnapshot, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	end := start + size - 1

	key := indexKey(userID)
	var ids []string
	if exists, _ := s.cache.Exists(ctx, key).Result(); exists > 0 {
		// LRANGE fetches only the requested window
		ids, _ = s.cache.LRange(ctx, key, int64(start), int64(end)).Result()
	}

	if len(ids) == 0 {
		allIDs, err := s.loadFollowerIDsAndCache(ctx, userID)
		if err != nil {
			return nil, err
		}
		if start >= len(allIDs) {
			return []FollowerSnapshot{}, nil
		}
		endIdx := start + size
		if endIdx > len(allIDs) {
			endIdx = len(allIDs)
		}
		ids = allIDs[start:endIdx]
	}

	return s.loadUsers(ctx, ids)
}

// Invalidate drops the cached follower index of userID. Called whenever the
// follow graph around userID changes.
func (s *FollowerCache) Invalidate(ctx context.Context, userID string) {
	_ = s.cache.Del(ctx, indexKey(userID)).Err()
}

func (s *FollowerCache) loadFollowerIDsAndCache(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).
		Table("follows").
		Select("follower_id").
		Where("followee_id = ?", userID).
		Order("created_at DESC").
		Scan(&ids).Error; err != nil {
		return nil, err
	}

	key := indexKey(userID)
	if len(ids) > 0 {
		pipe := s.cache.Pipeline()
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, interfaceSlice(ids)...)
		pipe.Expire(ctx, key, s.ttl)
		_, _ = pipe.Exec(ctx)
	}
	return ids, nil
}

func (s *FollowerCache) loadUsers(ctx context.Context, ids []string) ([]FollowerSnapshot, error) {
	if len(ids) == 0 {
		return []FollowerSnapshot{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}

	cached := make(map[string]FollowerSnapshot, len(ids))
	if vals, err := s.cache.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			if v == nil {
				continue
			}
			if str, ok := v.(string); ok {
				var snap FollowerSnapshot
				if uErr := json.Unmarshal([]byte(str), &snap); uErr == nil {
					cached[ids[i]] = snap
				}
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		var users []model.User
		if err := s.db.WithContext(ctx).Where("id IN ?", missing).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			snap := FollowerSnapshot{ID: u.ID, Username: u.Username, Bio: u.Bio, AvatarURL: u.AvatarURL}
			cached[u.ID] = snap
			if payload, err := json.Marshal(snap); err == nil {
				_ = s.cache.Set(ctx, userKey(u.ID), payload, s.ttl).Err()
			}
		}
	}

	result := make([]FollowerSnapshot, 0, len(ids))
	for _, id := range ids {
		if snap, ok := cached[id]; ok {
			result = append(result, snap)
		}
	}
	return result, nil
}

func interfaceSlice(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result
}
