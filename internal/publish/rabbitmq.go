// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/kortschak/thermo/internal/config"
)

var _ Producer = (*RabbitMQProducer)(nil)

// RabbitMQProducer publishes documents to a RabbitMQ topic exchange.
type RabbitMQProducer struct {
	cfg    config.RabbitMQConfig
	logger *zap.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewRabbitMQProducer returns a RabbitMQProducer connected to the
// configured broker. The connection is reestablished on demand if it
// is lost.
func NewRabbitMQProducer(cfg config.RabbitMQConfig, logger *zap.Logger) (*RabbitMQProducer, error) {
	p := &RabbitMQProducer{cfg: cfg, logger: logger}
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.connect()
	if err != nil {
		return nil, err
	}
	return p, nil
}

// connect dials the broker and declares the exchange and, if configured,
// the bound queue. It must be called with p.mu held.
func (p *RabbitMQProducer) connect() error {
	maskedURL := p.cfg.URL
	if u, err := amqp.ParseURI(p.cfg.URL); err == nil {
		u.Password = "******"
		maskedURL = u.String()
	}
	p.logger.Debug("connecting to rabbitmq", zap.String("url", maskedURL))
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		p.cfg.Exchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if p.cfg.QueueName != "" {
		_, err = ch.QueueDeclare(
			p.cfg.QueueName, // name
			true,            // durable
			false,           // delete when unused
			false,           // exclusive
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			conn.Close()
			return fmt.Errorf("failed to declare queue: %w", err)
		}
		err = ch.QueueBind(p.cfg.QueueName, p.cfg.RoutingKey, p.cfg.Exchange, false, nil)
		if err != nil {
			conn.Close()
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}
	p.conn = conn
	p.ch = ch
	p.logger.Info("connected to rabbitmq", zap.String("url", maskedURL), zap.String("exchange", p.cfg.Exchange))
	return nil
}

// channel returns an open channel, reconnecting if necessary.
func (p *RabbitMQProducer) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, errors.New("producer is closed")
	}
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.logger.Warn("rabbitmq connection lost, reconnecting")
	if p.conn != nil {
		p.conn.Close()
		p.conn, p.ch = nil, nil
	}
	err := p.connect()
	if err != nil {
		return nil, err
	}
	return p.ch, nil
}

// Produce publishes doc to the configured exchange with the configured
// routing key. The document key is sent as the message ID.
func (p *RabbitMQProducer) Produce(ctx context.Context, key string, doc any) error {
	body, err := marshal(doc)
	if err != nil {
		return err
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		p.cfg.Exchange,   // exchange
		p.cfg.RoutingKey, // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    key,
			Body:         body,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	p.logger.Debug("published message to rabbitmq", zap.String("exchange", p.cfg.Exchange), zap.String("key", key))
	return nil
}

func (p *RabbitMQProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn, p.ch = nil, nil
	return err
}
