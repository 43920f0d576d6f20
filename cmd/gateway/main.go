package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"saaam-quantumgate/pkg/config"
	"saaam-quantumgate/pkg/db"
	"saaam-quantumgate/pkg/logger"
	"saaam-quantumgate/pkg/redis"
	"saaam-quantumgate/pkg/server"
	"saaam-quantumgate/pkg/task"
	"saaam-quantumgate/services/catalog"
	"saaam-quantumgate/services/dispatch"
	"saaam-quantumgate/services/quote"
	"saaam-quantumgate/services/ratelimit"
	"saaam-quantumgate/services/registry"
	"saaam-quantumgate/services/revenue"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		task.Client,
		catalog.ServerModule,
		ratelimit.Module,
		registry.ServerModule,
		dispatch.ServerModule,
		revenue.ServerModule,
		quote.ServerModule,
		server.Module,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})
