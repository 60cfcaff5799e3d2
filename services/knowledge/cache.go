package knowledge

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const answerCachePrefix = "kb:answer:"

// CachedGateway fronts another gateway with a Redis answer cache. Cache
// failures degrade to the underlying gateway, never to an error.
type CachedGateway struct {
	next   Gateway
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGateway(next Gateway, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedGateway {
	return &CachedGateway{next: next, client: client, ttl: ttl, logger: logger}
}

func (g *CachedGateway) Query(ctx context.Context, text string) (string, error) {
	key := fmt.Sprintf("%s%x", answerCachePrefix, sha256.Sum256([]byte(text)))

	cached, err := g.client.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if err != redis.Nil {
		g.logger.Warn("knowledge cache read failed", zap.Error(err))
	}

	answer, err := g.next.Query(ctx, text)
	if err != nil {
		return "", err
	}

	if err := g.client.Set(ctx, key, answer, g.ttl).Err(); err != nil {
		g.logger.Warn("knowledge cache write failed", zap.Error(err))
	}
	return answer, nil
}
