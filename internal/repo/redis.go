package repo

import (
	"SendBay/config"
	"SendBay/model"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// Redis key prefixes.
const (
	ShareCachePrefix             = "share:"
	UploadRequestTombstonePrefix = "upreq:"
)

type RedisLock struct {
	rdb   *redis.Client
	key   string
	token string
	ttl   time.Duration
}

// InitRedis initializes the Redis client.
func InitRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.AppConfig.RedisHost, config.AppConfig.RedisPort),
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})
	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("init redis fail", err)
	}
	log.Println("init redis success")
	Redis = client
}

// EnableKeyspaceNotifications enables Redis expired-key events.
func EnableKeyspaceNotifications(ctx context.Context) error {
	if Redis == nil {
		return errors.New("redis not initialized")
	}
	return Redis.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err()
}

// NewRedisLock creates a Redis lock helper.
func NewRedisLock(rdb *redis.Client, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		rdb: rdb,
		key: key,
		ttl: ttl,
	}
}

// Lock acquires the Redis-based lock.
func (l *RedisLock) Lock(ctx context.Context) error {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("lock is busy")
	}
	l.token = token
	return nil
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Unlock releases the Redis-based lock.
func (l *RedisLock) Unlock(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	_, err := unlockScript.Run(
		ctx,
		l.rdb,
		[]string{l.key},
		l.token,
	).Result()
	return err
}

// SetUploadRequestTombstone stores a key that expires together with the
// upload request, so the expiry listener can deactivate the row.
func SetUploadRequestTombstone(ctx context.Context, token string, expiresAt time.Time) {
	if Redis == nil {
		return
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if err := Redis.Set(ctx, UploadRequestTombstonePrefix+token, "1", ttl).Err(); err != nil {
		log.Printf("set upload request tombstone failed: %v", err)
	}
}

// ListenRedisExpired listens for Redis expired-key events.
func ListenRedisExpired(ctx context.Context, rdb *redis.Client, ready chan<- struct{}) {
	pubsub := rdb.Subscribe(ctx, fmt.Sprintf("__keyevent@%d__:expired", config.AppConfig.RedisDB))
	_, err := pubsub.Receive(ctx)
	if err != nil {
		log.Fatalf("subscribe failed: %v", err)
	}
	close(ready)
	ch := pubsub.Channel()

	for msg := range ch {
		handleExpiredKey(ctx, msg.Payload)
	}
}

// handleExpiredKey dispatches expired-key handlers.
func handleExpiredKey(ctx context.Context, key string) {
	switch {
	case strings.HasPrefix(key, UploadRequestTombstonePrefix):
		handleUploadRequestExpired(key)
	case strings.HasPrefix(key, ShareCachePrefix):
		// cached share entries simply fall back to the database
	default:
	}
}

// handleUploadRequestExpired deactivates an upload request whose expiry
// passed. Expiry is terminal either way; the flag only makes it explicit.
func handleUploadRequestExpired(key string) {
	token := strings.TrimPrefix(key, UploadRequestTombstonePrefix)
	if err := Db.Model(&model.UploadRequest{}).
		Where("token = ?", token).
		Update("active", false).Error; err != nil {
		log.Printf("deactivate expired upload request %s failed: %v", token, err)
		return
	}
	log.Println("upload request expired:", token)
}
