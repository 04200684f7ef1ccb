// Package redis caches computed permission bitsets so hot-path checks
// can skip a full snapshot load. Entries are written wholesale and
// expire on a short TTL; there is no in-place mutation and no explicit
// invalidation beyond DeleteGuild.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client wraps a Redis connection for permission caching.
type Client struct {
	rdb *goredis.Client
}

// NewClient creates a Redis client from a URL and verifies the connection.
func NewClient(redisURL string) (*Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// Ping checks the Redis connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

const (
	permsPrefix = "perms:"
	permsTTL    = 30 * time.Second
)

// permsKey builds the cache key for a (guild, channel, user) triple.
// channelID 0 marks the guild-level result.
func permsKey(guildID, channelID, userID int64) string {
	return permsPrefix + strconv.FormatInt(guildID, 10) +
		":" + strconv.FormatInt(channelID, 10) +
		":" + strconv.FormatInt(userID, 10)
}

// SetPermissions stores a computed permission bitset.
func (c *Client) SetPermissions(ctx context.Context, guildID, channelID, userID, perms int64) error {
	return c.rdb.Set(ctx, permsKey(guildID, channelID, userID), perms, permsTTL).Err()
}

// GetPermissions returns a cached permission bitset. The second return
// value is false on a cache miss.
func (c *Client) GetPermissions(ctx context.Context, guildID, channelID, userID int64) (int64, bool, error) {
	val, err := c.rdb.Get(ctx, permsKey(guildID, channelID, userID)).Result()
	if err == goredis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("getting cached permissions: %w", err)
	}

	perms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parsing cached permissions: %w", err)
	}
	return perms, true, nil
}

// DeleteGuild drops every cached entry for a guild, for callers that
// know the guild's entity graph just changed and want fresh results
// before the TTL runs out.
func (c *Client) DeleteGuild(ctx context.Context, guildID int64) error {
	pattern := permsPrefix + strconv.FormatInt(guildID, 10) + ":*"

	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scanning permission keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("deleting permission keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}
