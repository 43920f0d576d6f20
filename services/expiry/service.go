package expiry

import (
	"context"
	"encoding/json"

	"saaam-quantumgate/pkg/task"
	"saaam-quantumgate/pkg/taskname"
	"saaam-quantumgate/services/registry"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Service materializes license expirations. Authentication already rejects
// lapsed licenses lazily; these handlers keep the stored status honest for
// reporting after worker downtime.
type Service struct {
	registry *registry.Service
	asynq    task.Enqueuer
}

type ServiceParams struct {
	fx.In
	Registry *registry.Service
	Asynq    task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{registry: p.Registry, asynq: p.Asynq}
}

type expirePayload struct {
	LicenseKey string `json:"license_key"`
}

// HandleExpire processes the per-license task enqueued at issuance time.
func (s *Service) HandleExpire(ctx context.Context, t *asynq.Task) error {
	var p expirePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		zap.L().Error("invalid expiry payload", zap.Error(err))
		return err
	}

	if err := s.registry.MarkExpired(ctx, p.LicenseKey); err != nil {
		zap.L().Error("failed to mark license expired",
			zap.String("license_key", p.LicenseKey),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// HandleSweep expires every license whose window has passed. It backstops
// per-license tasks lost while the worker was down.
func (s *Service) HandleSweep(ctx context.Context, _ *asynq.Task) error {
	n, err := s.registry.ExpireDue(ctx)
	if err != nil {
		zap.L().Error("expiry sweep failed", zap.Error(err))
		return err
	}

	zap.L().Info("expiry sweep finished", zap.Int("expired", n))
	return nil
}

// EnqueueSweep queues a sweep pass on the default queue.
func (s *Service) EnqueueSweep(ctx context.Context) error {
	if s.asynq == nil {
		return nil
	}
	_, err := s.asynq.Enqueue(asynq.NewTask(taskname.LicenseExpireSweep, nil))
	return err
}
