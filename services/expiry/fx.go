package expiry

import (
	"github.com/hibiken/asynq"
	"go.uber.org/fx"

	"saaam-quantumgate/pkg/taskname"
)

var Module = fx.Module("expiry.module",
	fx.Provide(
		NewService,
		NewScheduler,
	),
	fx.Invoke(
		RegisterHandlers,
		StartScheduler,
	),
)

func RegisterHandlers(mux *asynq.ServeMux, s *Service) {
	mux.HandleFunc(taskname.LicenseExpire, s.HandleExpire)
	mux.HandleFunc(taskname.LicenseExpireSweep, s.HandleSweep)
}
