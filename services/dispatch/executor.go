package dispatch

import (
	"context"

	"saaam-quantumgate/services/catalog"
	"saaam-quantumgate/services/registry"

	"go.uber.org/zap"
)

// echoExecutor stands in for the downstream quantum execution paths, which
// live outside the gateway. It reflects the payload back so the dispatch
// contract stays testable end to end.
type echoExecutor struct{}

func (echoExecutor) Execute(_ context.Context, lic *registry.License, req Request) (*Response, error) {
	zap.L().Debug("executing request",
		zap.String("tier", lic.Tier),
		zap.String("feature", req.RequiredFeature),
	)

	return &Response{
		Tier:    lic.Tier,
		Feature: req.RequiredFeature,
		Result:  req.Payload,
	}, nil
}

// DefaultExecutors wires the placeholder execution path for every tier.
func DefaultExecutors() map[catalog.Tier]Executor {
	return map[catalog.Tier]Executor{
		catalog.TierBasic:        echoExecutor{},
		catalog.TierProfessional: echoExecutor{},
		catalog.TierEnterprise:   echoExecutor{},
		catalog.TierUnlimited:    echoExecutor{},
	}
}
