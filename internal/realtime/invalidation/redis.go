package invalidation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

type redisNotifier struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisNotifier publishes invalidation messages on a Redis pub/sub channel.
func NewRedisNotifier(log *logger.Logger, addr, channel string) (Notifier, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = "invalidation"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisNotifier{
		log:     log.With("service", "RedisInvalidationNotifier"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (n *redisNotifier) Notify(ctx context.Context, paths ...string) error {
	if n == nil || n.rdb == nil {
		return fmt.Errorf("redis notifier not initialized")
	}
	norm := NormalizePaths(paths)
	if len(norm) == 0 {
		return nil
	}
	raw, err := json.Marshal(Message{Paths: norm, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, n.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (n *redisNotifier) Close() error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Close()
}
