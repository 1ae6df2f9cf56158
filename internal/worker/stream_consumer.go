package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/haeseoky/member-service/internal/config"
	"github.com/haeseoky/member-service/internal/events"
)

// StreamConsumer reads member events back off the Redis Stream and fans
// them into the in-process dispatcher. Entries are acked only after the
// dispatcher ran, giving subscribers at-least-once delivery.
type StreamConsumer struct {
	client     *redis.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
	stream     string
	group      string
	consumer   string
}

// NewStreamConsumer constructs the consumer.
func NewStreamConsumer(client *redis.Client, dispatcher events.Dispatcher, logger *zap.Logger, cfg config.EventsConfig) *StreamConsumer {
	return &StreamConsumer{
		client:     client,
		dispatcher: dispatcher,
		logger:     logger,
		stream:     cfg.Stream,
		group:      cfg.ConsumerGroup,
		consumer:   cfg.ConsumerName,
	}
}

// Run consumes the stream until ctx is cancelled.
func (c *StreamConsumer) Run(ctx context.Context) {
	if err := c.ensureGroup(ctx); err != nil {
		c.logger.Error("create consumer group failed", zap.Error(err))
		return
	}

	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.consumer,
			Streams:  []string{c.stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			c.logger.Warn("stream read failed", zap.Error(err))
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				c.handleMessage(ctx, message)
			}
		}
	}
}

func (c *StreamConsumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *StreamConsumer) handleMessage(ctx context.Context, message redis.XMessage) {
	raw, ok := message.Values["event"].(string)
	if !ok {
		c.logger.Warn("stream entry without event field", zap.String("entry_id", message.ID))
		c.ack(ctx, message.ID)
		return
	}

	var event events.Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		c.logger.Warn("undecodable stream entry", zap.String("entry_id", message.ID), zap.Error(err))
		c.ack(ctx, message.ID)
		return
	}

	if err := c.dispatcher.Dispatch(ctx, event); err != nil {
		// leave the entry unacked so the group redelivers it
		c.logger.Warn("event dispatch failed", zap.String("event_id", event.ID), zap.Error(err))
		return
	}

	c.ack(ctx, message.ID)
}

func (c *StreamConsumer) ack(ctx context.Context, entryID string) {
	if err := c.client.XAck(ctx, c.stream, c.group, entryID).Err(); err != nil {
		c.logger.Warn("stream ack failed", zap.String("entry_id", entryID), zap.Error(err))
	}
}
