package dispatch

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"saaam-quantumgate/pkg/config"
	"saaam-quantumgate/pkg/errutil"
	"saaam-quantumgate/services/catalog"
	"saaam-quantumgate/services/ratelimit"
	"saaam-quantumgate/services/registry"
	"saaam-quantumgate/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type countingAdmitter struct {
	calls int64
	allow bool
}

func (a *countingAdmitter) Admit(_ context.Context, _, _ string, _ ratelimit.Ceiling) (bool, error) {
	atomic.AddInt64(&a.calls, 1)
	return a.allow, nil
}

func newTestStack(t *testing.T) (*Service, *registry.Service) {
	t.Helper()

	db := testutil.NewTestDB(t, &registry.License{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cat, err := catalog.New(&config.Config{})
	require.NoError(t, err)

	reg := registry.NewService(registry.ServiceParams{
		DB:      db,
		Node:    node,
		Catalog: cat,
	})

	svc := &Service{
		auth:      reg,
		limiter:   ratelimit.NewLimiter(ratelimit.NewMemoryStore()),
		catalog:   cat,
		cache:     newEntitlementCache(5 * time.Minute),
		executors: DefaultExecutors(),
	}
	return svc, reg
}

func TestHandleInvalidKeyTouchesNoCounter(t *testing.T) {
	svc, _ := newTestStack(t)
	admitter := &countingAdmitter{allow: true}
	svc.limiter = admitter

	_, err := svc.Handle(context.Background(), "saam-api-bogus", Request{RequiredFeature: "quantum_processing"})
	require.Error(t, err)
	require.Equal(t, errutil.StatusUnauthorized, errutil.Code(err))
	require.Zero(t, atomic.LoadInt64(&admitter.calls))
}

func TestHandleRateLimited(t *testing.T) {
	svc, reg := newTestStack(t)
	svc.limiter = &countingAdmitter{allow: false}

	lic, err := reg.Issue(context.Background(), "TechCorp", catalog.TierBasic)
	require.NoError(t, err)

	_, err = svc.Handle(context.Background(), lic.APIKey, Request{RequiredFeature: "quantum_processing"})
	require.Error(t, err)
	require.Equal(t, errutil.StatusTooManyRequests, errutil.Code(err))
}

func TestHandleFeatureNotEntitled(t *testing.T) {
	svc, reg := newTestStack(t)

	lic, err := reg.Issue(context.Background(), "TechCorp", catalog.TierBasic)
	require.NoError(t, err)

	_, err = svc.Handle(context.Background(), lic.APIKey, Request{RequiredFeature: "custom_quantum_circuits"})
	require.Error(t, err)
	require.Equal(t, errutil.StatusFeatureNotEntitled, errutil.Code(err))
}

func TestHandleMissingFeature(t *testing.T) {
	svc, reg := newTestStack(t)

	lic, err := reg.Issue(context.Background(), "TechCorp", catalog.TierBasic)
	require.NoError(t, err)

	_, err = svc.Handle(context.Background(), lic.APIKey, Request{})
	require.Error(t, err)
	require.Equal(t, errutil.StatusValidationFailed, errutil.Code(err))
}

func TestHandlePassThrough(t *testing.T) {
	svc, reg := newTestStack(t)

	lic, err := reg.Issue(context.Background(), "TechCorp", catalog.TierProfessional)
	require.NoError(t, err)

	payload := json.RawMessage(`{"circuit":"ghz"}`)
	resp, err := svc.Handle(context.Background(), lic.APIKey, Request{
		RequiredFeature: "quantum_ml",
		Payload:         payload,
	})
	require.NoError(t, err)
	require.Equal(t, "PROFESSIONAL", resp.Tier)
	require.Equal(t, "quantum_ml", resp.Feature)
	require.JSONEq(t, string(payload), string(resp.Result))
}

type fakeAuth struct {
	lic *registry.License
	err error
}

func (f *fakeAuth) Authenticate(_ context.Context, _ string) (*registry.License, error) {
	return f.lic, f.err
}

func TestHandleExpiredLicense(t *testing.T) {
	svc, _ := newTestStack(t)
	admitter := &countingAdmitter{allow: true}
	svc.limiter = admitter
	svc.auth = &fakeAuth{err: errutil.New(errutil.StatusExpiredLicense, "license has expired")}

	_, err := svc.Handle(context.Background(), "saam-api-anything", Request{RequiredFeature: "quantum_processing"})
	require.Error(t, err)
	require.Equal(t, errutil.StatusExpiredLicense, errutil.Code(err))
	require.Zero(t, atomic.LoadInt64(&admitter.calls))
}

func TestHandleEnterpriseEndToEnd(t *testing.T) {
	svc, reg := newTestStack(t)

	fixed := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	store := ratelimit.NewMemoryStore().WithClock(func() time.Time { return fixed })
	svc.limiter = ratelimit.NewLimiter(store)

	lic, err := reg.Issue(context.Background(), "TechCorp", catalog.TierEnterprise)
	require.NoError(t, err)
	require.Equal(t, 1024, lic.QuantumAllocation)
	require.InDelta(t, 0.75, lic.AccessLevel, 1e-9)

	ctx := context.Background()
	admitted := 0
	var lastErr error
	for i := 0; i < 251; i++ {
		_, err := svc.Handle(ctx, lic.APIKey, Request{RequiredFeature: "priority_support"})
		if err != nil {
			lastErr = err
			continue
		}
		admitted++
	}

	require.Equal(t, 250, admitted)
	require.Error(t, lastErr)
	require.Equal(t, errutil.StatusTooManyRequests, errutil.Code(lastErr))
}
