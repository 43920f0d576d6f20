package dispatch

import (
	"context"
	"time"

	"saaam-quantumgate/pkg/errutil"
	"saaam-quantumgate/services/catalog"
	"saaam-quantumgate/services/ratelimit"
	"saaam-quantumgate/services/registry"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Authenticator resolves API keys to licenses.
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) (*registry.License, error)
}

// Admitter decides whether a request may consume a rate-limit slot.
type Admitter interface {
	Admit(ctx context.Context, key, tier string, c ratelimit.Ceiling) (bool, error)
}

// Service gates every request: authentication, then admission, then
// entitlement, in that order. The cheapest security-relevant check runs
// first and an invalid key never touches a rate counter.
type Service struct {
	auth      Authenticator
	limiter   Admitter
	catalog   *catalog.Catalog
	cache     *entitlementCache
	executors map[catalog.Tier]Executor
}

type ServiceParams struct {
	fx.In
	Registry  *registry.Service
	Limiter   *ratelimit.Limiter
	Catalog   *catalog.Catalog
	Executors map[catalog.Tier]Executor
}

func NewService(p ServiceParams) *Service {
	return &Service{
		auth:      p.Registry,
		limiter:   p.Limiter,
		catalog:   p.Catalog,
		cache:     newEntitlementCache(5 * time.Minute),
		executors: p.Executors,
	}
}

func (s *Service) Handle(ctx context.Context, apiKey string, req Request) (*Response, error) {
	span := trace.SpanFromContext(ctx)
	zapLog := zap.L().With(
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("required_feature", req.RequiredFeature),
	)

	if req.RequiredFeature == "" {
		return nil, errMissingFeature()
	}

	lic, err := s.auth.Authenticate(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	// The ceiling follows the current catalog, unlike the frozen
	// issuance snapshots.
	profile, err := s.catalog.Lookup(lic.TierValue())
	if err != nil {
		zapLog.Error("catalog lookup failed during dispatch", zap.Error(err))
		return nil, err
	}

	admitted, err := s.limiter.Admit(ctx, lic.LicenseKey, lic.Tier, profile.Ceiling)
	if err != nil {
		zapLog.Error("rate limit store failed", zap.Error(err))
		return nil, errutil.Internal("admission check failed", errutil.WithErr(err))
	}
	if !admitted {
		return nil, errRateLimitExceeded()
	}

	features := s.cache.resolve(lic)
	if _, ok := features[req.RequiredFeature]; !ok {
		return nil, errFeatureNotEntitled(req.RequiredFeature)
	}

	exec, ok := s.executors[lic.TierValue()]
	if !ok {
		zapLog.Error("no execution path registered for tier", zap.String("tier", lic.Tier))
		return nil, errutil.Internal("no execution path for tier")
	}

	return exec.Execute(ctx, lic, req)
}
