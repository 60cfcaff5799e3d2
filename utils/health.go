package utils

import (
	"context"
	"sync"
	"time"

	"voicedesk/services/fallback"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services and the
// advisory health of each capability pool's providers.
type HealthStatus struct {
	Mongo     bool                         `json:"mongo"`
	Redis     []bool                       `json:"redis"`
	Pools     map[string]map[string]string `json:"pools"`
	CheckedAt time.Time                    `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory
// state. mongoClient may be nil when the booking archive is disabled.
func StartHealthMonitor(redisClients []*redis.Client, mongoClient *mongo.Client, pools []*fallback.Pool) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			var redisHealth []bool
			for _, client := range redisClients {
				pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				_, err := client.Ping(pingCtx).Result()
				cancel()
				redisHealth = append(redisHealth, err == nil)
			}

			mongoUp := false
			if mongoClient != nil {
				pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
				mongoUp = mongoClient.Ping(pingCtx, nil) == nil
				cancel()
			}

			poolHealth := make(map[string]map[string]string, len(pools))
			for _, pool := range pools {
				providers := make(map[string]string)
				for name, state := range pool.Health() {
					providers[name] = string(state)
				}
				poolHealth[string(pool.Capability())] = providers
			}

			healthMu.Lock()
			currentHealth = HealthStatus{
				Mongo:     mongoUp,
				Redis:     redisHealth,
				Pools:     poolHealth,
				CheckedAt: time.Now(),
			}
			healthMu.Unlock()
		}
	}()
}
