package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-deletion-service/internal/domain/user"
)

// RedisEventPublisher broadcasts deletion events over Redis pub/sub.
type RedisEventPublisher struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

// NewRedisEventPublisher creates a publisher writing to channel.
func NewRedisEventPublisher(client *redis.Client, channel string, log *zap.Logger) *RedisEventPublisher {
	return &RedisEventPublisher{
		client:  client,
		channel: channel,
		log:     log,
	}
}

// PublishUserDeleted JSON-encodes evt and publishes it.
func (p *RedisEventPublisher) PublishUserDeleted(ctx context.Context, evt domain.UserDeletedEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal user deleted event: %w", err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, data).Result()
	if err != nil {
		p.log.Error("failed to publish event", zap.String("channel", p.channel), zap.String("user_id", evt.UserID), zap.Error(err))
		return fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}

	p.log.Debug("published user deleted event",
		zap.String("channel", p.channel),
		zap.String("user_id", evt.UserID),
		zap.Int64("receivers", receivers),
	)
	return nil
}
