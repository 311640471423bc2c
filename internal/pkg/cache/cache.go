package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ManuelReschke/newsfeed/internal/pkg/config"
)

const tagLabelPrefix = "newsfeed:tag:"

// NewClient connects to the Redis server described by cfg. A failed ping is
// logged but not fatal: the repository falls back to the database.
func NewClient(ctx context.Context, cfg config.CacheConfig, log zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	if pong, err := client.Ping(ctx).Result(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr()).Msg("could not connect to cache")
	} else {
		log.Info().Str("addr", cfg.Addr()).Str("pong", pong).Msg("connected to cache")
	}
	return client
}

// TagLabelCache stores tag labels in Redis under newsfeed:tag:<id>.
type TagLabelCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTagLabelCache(client *redis.Client, ttl time.Duration) *TagLabelCache {
	return &TagLabelCache{client: client, ttl: ttl}
}

func tagLabelKey(tagID uint) string {
	return tagLabelPrefix + strconv.FormatUint(uint64(tagID), 10)
}

// GetLabel returns the cached label; ok is false on a cache miss.
func (c *TagLabelCache) GetLabel(ctx context.Context, tagID uint) (string, bool, error) {
	label, err := c.client.Get(ctx, tagLabelKey(tagID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get tag label %d: %w", tagID, err)
	}
	return label, true, nil
}

func (c *TagLabelCache) SetLabel(ctx context.Context, tagID uint, label string) error {
	return c.client.Set(ctx, tagLabelKey(tagID), label, c.ttl).Err()
}

func (c *TagLabelCache) DeleteLabels(ctx context.Context, tagIDs ...uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	keys := make([]string, len(tagIDs))
	for i, id := range tagIDs {
		keys[i] = tagLabelKey(id)
	}
	return c.client.Del(ctx, keys...).Err()
}
