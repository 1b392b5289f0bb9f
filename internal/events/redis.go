package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher publishes events on a redis pub/sub channel.
type RedisPublisher struct {
	rdb     redis.Cmdable
	channel string
	logger  *zap.Logger
}

func NewRedisPublisher(rdb redis.Cmdable, channel string, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{rdb: rdb, channel: channel, logger: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, event FeeStructureEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("channel", p.channel),
		zap.String("type", event.Type),
		zap.Uint("fee_structure_id", event.FeeStructureID))
	return nil
}

// Close is a no-op; the redis client is owned by the caller.
func (p *RedisPublisher) Close() error { return nil }
