// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kortschak/thermo/internal/config"
)

var _ Producer = (*RedisProducer)(nil)

// RedisProducer publishes documents to a Redis Pub/Sub channel and
// retains them in a capped list per document key. The most recent
// document for each key is also stored under a latest key.
type RedisProducer struct {
	client  *redis.Client
	channel string
	maxLen  int64
	logger  *zap.Logger
}

// NewRedisProducer returns a RedisProducer connected to the configured
// server.
func NewRedisProducer(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RedisProducer, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.String("channel", cfg.Channel))
	return &RedisProducer{
		client:  client,
		channel: cfg.Channel,
		maxLen:  cfg.MaxLen,
		logger:  logger,
	}, nil
}

func listKey(key string) string   { return "thermo:" + key + ":data" }
func latestKey(key string) string { return "thermo:" + key + ":latest" }

// Produce publishes doc and records it under key.
func (p *RedisProducer) Produce(ctx context.Context, key string, doc any) error {
	body, err := marshal(doc)
	if err != nil {
		return err
	}
	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, p.channel, body)
		pipe.LPush(ctx, listKey(key), body)
		if p.maxLen > 0 {
			pipe.LTrim(ctx, listKey(key), 0, p.maxLen-1)
		}
		pipe.Set(ctx, latestKey(key), body, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	p.logger.Debug("published message to redis", zap.String("channel", p.channel), zap.String("key", key))
	return nil
}

func (p *RedisProducer) Close() error { return p.client.Close() }
