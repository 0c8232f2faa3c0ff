package repo

import (
	"SendBay/model"
	"context"
	"encoding/json"
	"time"
)

// Cached share rows are advisory: download accounting always runs as a
// conditional update against MySQL, so a stale counter here is harmless.
const shareCacheTTL = 10 * time.Minute

// shareCacheEntry mirrors model.Share explicitly. The model's JSON tags hide
// the password hash from API responses, but the cache must keep it.
type shareCacheEntry struct {
	ID           uint64     `json:"id"`
	Token        string     `json:"token"`
	FileID       uint64     `json:"file_id"`
	Password     string     `json:"password"`
	ExpiresAt    *time.Time `json:"expires_at"`
	MaxDownloads *int       `json:"max_downloads"`
	Downloads    int        `json:"downloads"`
	Label        string     `json:"label"`
	CreatedAt    time.Time  `json:"created_at"`
}

// GetShareFromCache reads a cached share by token.
func GetShareFromCache(ctx context.Context, token string) (*model.Share, bool) {
	if Redis == nil {
		return nil, false
	}
	val, err := Redis.Get(ctx, ShareCachePrefix+token).Result()
	if err != nil {
		return nil, false
	}
	var entry shareCacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, false
	}
	return &model.Share{
		ID:           entry.ID,
		Token:        entry.Token,
		FileID:       entry.FileID,
		Password:     entry.Password,
		ExpiresAt:    entry.ExpiresAt,
		MaxDownloads: entry.MaxDownloads,
		Downloads:    entry.Downloads,
		Label:        entry.Label,
		CreatedAt:    entry.CreatedAt,
	}, true
}

// SetShareToCache caches a share row. The TTL never outlives the share's
// own expiry.
func SetShareToCache(ctx context.Context, share *model.Share) {
	if Redis == nil {
		return
	}
	ttl := shareCacheTTL
	if share.ExpiresAt != nil {
		until := time.Until(*share.ExpiresAt)
		if until <= 0 {
			return
		}
		if until < ttl {
			ttl = until
		}
	}
	entry := shareCacheEntry{
		ID:           share.ID,
		Token:        share.Token,
		FileID:       share.FileID,
		Password:     share.Password,
		ExpiresAt:    share.ExpiresAt,
		MaxDownloads: share.MaxDownloads,
		Downloads:    share.Downloads,
		Label:        share.Label,
		CreatedAt:    share.CreatedAt,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = Redis.Set(ctx, ShareCachePrefix+share.Token, data, ttl).Err()
}

// InvalidateShareCache drops the cached share row.
func InvalidateShareCache(ctx context.Context, token string) {
	if Redis == nil {
		return
	}
	_ = Redis.Del(ctx, ShareCachePrefix+token).Err()
}
