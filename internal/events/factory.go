package events

import (
	"fmt"

	"feeengine/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// New builds the publisher selected by cfg.Backend. rdb is only used by the
// redis backend.
func New(cfg config.EventsConfig, rdb redis.Cmdable, logger *zap.Logger) (Publisher, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NoopPublisher{}, nil
	case BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis events backend requires a redis client")
		}
		return NewRedisPublisher(rdb, cfg.RedisChannel, logger), nil
	case BackendKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("kafka events backend requires at least one broker")
		}
		return NewKafkaPublisher(NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), logger), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
