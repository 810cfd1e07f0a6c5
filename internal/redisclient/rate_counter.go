package redisclient

import (
	"context"
	"time"
)

const rateKeyPrefix = "homage:ratelimit:"

// Hit counts one request against key inside a fixed window shared by every
// API process. It returns the count so far and the time until the window
// resets.
func (c *Client) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	key = rateKeyPrefix + key

	count, err := c.redisdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	// first hit opens the window
	if count == 1 {
		if err := c.redisdb.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return 1, window, nil
	}

	ttl, err := c.redisdb.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	// a key that lost its expiry would otherwise block forever
	if ttl < 0 {
		if err := c.redisdb.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}

	return int(count), ttl, nil
}
