// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package publish provides message queue publishers for measurement
// documents.
package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kortschak/thermo/internal/config"
)

// Producer publishes documents.
type Producer interface {
	// Produce publishes the JSON encoding of doc with the given key.
	Produce(ctx context.Context, key string, doc any) error
	// Close releases resources held by the producer.
	Close() error
}

// New returns the Producer selected by cfg.Type.
func New(cfg config.PublisherConfig, logger *zap.Logger) (Producer, error) {
	switch cfg.Type {
	case "", "none":
		return NoOp{}, nil
	case "kafka":
		return NewKafkaProducer(cfg.Kafka, logger), nil
	case "rabbitmq":
		p, err := NewRabbitMQProducer(cfg.RabbitMQ, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "redis":
		p, err := NewRedisProducer(context.Background(), cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown publisher type: %q", cfg.Type)
	}
}

// NoOp is a Producer that discards documents.
type NoOp struct{}

func (NoOp) Produce(context.Context, string, any) error { return nil }
func (NoOp) Close() error                               { return nil }

func marshal(doc any) ([]byte, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return body, nil
}
