package ratelimit

import (
	"saaam-quantumgate/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("ratelimit.module",
	fx.Provide(provideStore, NewLimiter),
)

type storeParams struct {
	fx.In
	Config *config.Config
	Redis  *redis.Client `optional:"true"`
}

func provideStore(p storeParams) Store {
	if p.Config.RateLimit.Store == "redis" && p.Redis != nil {
		zap.L().Info("[RateLimit] using redis store")
		return NewRedisStore(p.Redis)
	}
	return NewMemoryStore()
}
