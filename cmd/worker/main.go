package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"saaam-quantumgate/pkg/config"
	"saaam-quantumgate/pkg/db"
	"saaam-quantumgate/pkg/logger"
	"saaam-quantumgate/pkg/task"
	"saaam-quantumgate/services/catalog"
	"saaam-quantumgate/services/expiry"
	"saaam-quantumgate/services/registry"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		task.Client,
		task.Server,
		catalog.Module,
		registry.Module,
		expiry.Module,
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
