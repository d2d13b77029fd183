package app

import (
	"fmt"

	"github.com/yungbote/fundgraph-backend/internal/clients/redis"
	"github.com/yungbote/fundgraph-backend/internal/platform/logger"
)

type Clients struct {
	// AggregateCache is nil when no redis address is configured.
	AggregateCache redis.AggregateCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var cache redis.AggregateCache
	if cfg.Redis.Addr != "" {
		c, err := redis.NewAggregateCache(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis aggregate cache: %w", err)
		}
		cache = c
	} else {
		log.Info("REDIS_ADDR not set; investor aggregates are computed per request")
	}

	return Clients{AggregateCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.AggregateCache != nil {
		_ = c.AggregateCache.Close()
	}
}
