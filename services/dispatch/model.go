package dispatch

import (
	"context"
	"encoding/json"

	"saaam-quantumgate/services/registry"
)

// Request is the opaque payload plus the capability it needs.
type Request struct {
	RequiredFeature string          `json:"required_feature"`
	Payload         json.RawMessage `json:"payload"`
}

// Response comes back from the execution path and is returned to the
// caller unchanged.
type Response struct {
	Tier    string          `json:"tier"`
	Feature string          `json:"feature"`
	Result  json.RawMessage `json:"result"`
}

// Executor is the tier-appropriate execution path. Execution is delegated
// downstream and may be long-running; the gateway holds no lock across it.
type Executor interface {
	Execute(ctx context.Context, lic *registry.License, req Request) (*Response, error)
}
