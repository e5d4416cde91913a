// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kortschak/thermo/internal/config"
)

var _ Producer = (*KafkaProducer)(nil)

// KafkaProducer publishes documents to a Kafka topic.
type KafkaProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaProducer returns a KafkaProducer. Brokers are not contacted
// until the first document is produced.
func NewKafkaProducer(cfg config.KafkaConfig, logger *zap.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	logger.Info("initialized kafka producer", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return &KafkaProducer{writer: w, logger: logger}
}

// Produce writes doc to the configured topic. Documents with the same key
// are written to the same partition.
func (p *KafkaProducer) Produce(ctx context.Context, key string, doc any) error {
	body, err := marshal(doc)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
	})
	if err != nil {
		p.logger.Error("failed to produce message to kafka", zap.Error(err), zap.String("topic", p.writer.Topic))
		return err
	}
	p.logger.Debug("produced message to kafka", zap.String("topic", p.writer.Topic), zap.String("key", key))
	return nil
}

func (p *KafkaProducer) Close() error { return p.writer.Close() }
