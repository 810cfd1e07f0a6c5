// Package redisclient backs the request throttles with Redis so limits hold
// across every API process.
package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a middlewares.Counter.
type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New does not dial. Call Ping before trusting the counter.
func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		// every request does INCR + PTTL, keep a slow Redis from holding it up
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		MaxRetries:   1,
	})

	return &Client{redisdb: redisdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}
