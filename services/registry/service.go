package registry

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"saaam-quantumgate/pkg/db/option"
	"saaam-quantumgate/pkg/db/pagination"
	"saaam-quantumgate/pkg/errutil"
	"saaam-quantumgate/pkg/repository"
	"saaam-quantumgate/pkg/task"
	"saaam-quantumgate/pkg/taskname"
	"saaam-quantumgate/services/catalog"
	"saaam-quantumgate/services/credential"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxDeriveAttempts = 5
	validityPeriod    = 30 * 24 * time.Hour
)

// Service is the single source of truth for issued licenses. It owns every
// License record: the in-memory dual index serves O(1) authentication and
// consistent revenue reads, the repository persists for audit and restart.
type Service struct {
	mu        sync.RWMutex
	byLicense map[string]*License
	byAPI     map[string]*License

	catalog   *catalog.Catalog
	repo      repository.Repository[License]
	node      *snowflake.Node
	asynq     task.Enqueuer
	now       func() time.Time
	deriveKey func(companyName string, tier catalog.Tier, nonce string) string
}

type ServiceParams struct {
	fx.In
	DB      *gorm.DB
	Node    *snowflake.Node
	Catalog *catalog.Catalog
	Asynq   task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		byLicense: make(map[string]*License),
		byAPI:     make(map[string]*License),
		catalog:   p.Catalog,
		repo:      repository.ProvideStore[License](p.DB),
		node:      p.Node,
		asynq:     p.Asynq,
		now:       time.Now,
		deriveKey: credential.LicenseKey,
	}
}

// SetClock overrides the registry's time source. Tests use it to lapse
// licenses without waiting out the validity window.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Load rebuilds the serving indices from the store after a restart.
// Revoked licenses stay out of the indices; expired ones stay in, since
// they are rejected (not forgotten) on authentication.
func (s *Service) Load(ctx context.Context) error {
	rows, err := s.repo.Find(ctx, &License{})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lic := range rows {
		if lic.Status == LicenseStatusRevoked {
			continue
		}
		s.byLicense[lic.LicenseKey] = lic
		s.byAPI[lic.APIKey] = lic
	}

	zap.L().Info("license registry loaded", zap.Int("licenses", len(s.byLicense)))
	return nil
}

// Issue creates a license for the company on the given tier, snapshotting
// the tier's allocation, fee, features and access level at issuance time.
func (s *Service) Issue(ctx context.Context, companyName string, tier catalog.Tier) (*License, error) {
	span := trace.SpanFromContext(ctx)

	zapLog := zap.L().With(
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("company_name", companyName),
		zap.String("tier", tier.String()),
	)

	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, errInvalidRequest("company_name must not be empty")
	}

	profile, err := s.catalog.Lookup(tier)
	if err != nil {
		zapLog.Error("tier catalog lookup failed", zap.Error(err))
		return nil, err
	}

	now := s.now()
	lic := &License{
		ID:                s.node.Generate().String(),
		Tier:              tier.String(),
		CompanyName:       companyName,
		CompanySlug:       slug.Make(companyName),
		AccessLevel:       profile.AccessLevel,
		QuantumAllocation: profile.ResourceAllocation,
		MonthlyFee:        profile.MonthlyPrice,
		Features:          append([]string(nil), profile.Features...),
		StartDate:         now,
		ExpirationDate:    now.Add(validityPeriod),
		Status:            LicenseStatusActive,
	}

	// Derivation and the uniqueness check happen under one write lock so
	// two concurrent issuances can never reserve the same key pair.
	s.mu.Lock()
	derived := false
	for attempt := 0; attempt < maxDeriveAttempts; attempt++ {
		nonce, nerr := credential.NewNonce()
		if nerr != nil {
			s.mu.Unlock()
			zapLog.Error("nonce generation failed", zap.Error(nerr))
			return nil, errutil.Internal("nonce generation failed", errutil.WithErr(nerr))
		}

		lk := s.deriveKey(companyName, tier, nonce)
		ak := credential.APIKey(lk)
		if _, exists := s.byLicense[lk]; exists {
			continue
		}
		if _, exists := s.byAPI[ak]; exists {
			continue
		}

		lic.LicenseKey = lk
		lic.APIKey = ak
		derived = true
		break
	}
	if !derived {
		s.mu.Unlock()
		zapLog.Error("key derivation retries exhausted")
		return nil, errKeyCollisionExhausted()
	}

	s.byLicense[lic.LicenseKey] = lic
	s.byAPI[lic.APIKey] = lic
	s.mu.Unlock()

	if err := s.repo.Create(ctx, lic); err != nil {
		s.mu.Lock()
		delete(s.byLicense, lic.LicenseKey)
		delete(s.byAPI, lic.APIKey)
		s.mu.Unlock()
		zapLog.Error("failed to persist license", zap.Error(err))
		return nil, errutil.Internal("failed to persist license", errutil.WithErr(err))
	}

	s.enqueueExpiry(lic, zapLog)

	zapLog.Info("license issued", zap.String("license_key", lic.LicenseKey))

	out := *lic
	return &out, nil
}

func (s *Service) enqueueExpiry(lic *License, zapLog *zap.Logger) {
	if s.asynq == nil {
		return
	}

	payload, err := json.Marshal(struct {
		LicenseKey string `json:"license_key"`
	}{LicenseKey: lic.LicenseKey})
	if err != nil {
		zapLog.Warn("failed to marshal expiry payload", zap.Error(err))
		return
	}

	t := asynq.NewTask(taskname.LicenseExpire, payload)
	if _, err := s.asynq.Enqueue(t, asynq.ProcessAt(lic.ExpirationDate), asynq.Queue("low")); err != nil {
		// Best effort: the daily sweep and lazy checks cover the gap.
		zapLog.Warn("failed to enqueue expiry task", zap.Error(err))
	}
}

// Authenticate resolves an API key to its license. Expired licenses are
// rejected but retained for audit; revoked or unknown keys look identical
// to the caller.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*License, error) {
	s.mu.RLock()
	lic, ok := s.byAPI[apiKey]
	if !ok || lic.Status == LicenseStatusRevoked {
		s.mu.RUnlock()
		return nil, errInvalidCredential()
	}
	out := *lic
	s.mu.RUnlock()

	if s.now().After(out.ExpirationDate) {
		return nil, errExpiredLicense()
	}

	return &out, nil
}

// RevenueSnapshot sums the monthly fee over currently valid licenses. The
// read lock makes it a consistent point-in-time view even while Issue is
// mutating the registry.
func (s *Service) RevenueSnapshot() decimal.Decimal {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, lic := range s.byLicense {
		if lic.Status != LicenseStatusActive {
			continue
		}
		if now.After(lic.ExpirationDate) {
			continue
		}
		total = total.Add(lic.MonthlyFee)
	}
	return total
}

// Renew extends a license 30 days past max(now, current expiration) and
// reactivates it if it had lapsed. Issuance-time snapshots stay frozen.
func (s *Service) Renew(ctx context.Context, licenseKey string) (*License, error) {
	span := trace.SpanFromContext(ctx)
	zapLog := zap.L().With(
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("license_key", licenseKey),
	)

	s.mu.Lock()
	lic, ok := s.byLicense[licenseKey]
	if !ok || lic.Status == LicenseStatusRevoked {
		s.mu.Unlock()
		return nil, errutil.NotFound("license not found")
	}

	base := lic.ExpirationDate
	if now := s.now(); now.After(base) {
		base = now
	}
	lic.ExpirationDate = base.Add(validityPeriod)
	lic.Status = LicenseStatusActive
	out := *lic
	s.mu.Unlock()

	if err := s.repo.Update(ctx, out.ID, map[string]any{
		"expiration_date": out.ExpirationDate,
		"status":          out.Status,
	}); err != nil {
		zapLog.Error("failed to persist renewal", zap.Error(err))
		return nil, errutil.Internal("failed to persist renewal", errutil.WithErr(err))
	}

	zapLog.Info("license renewed", zap.Time("expiration_date", out.ExpirationDate))
	return &out, nil
}

// Revoke removes the license from the serving indices. The stored record
// survives for audit.
func (s *Service) Revoke(ctx context.Context, licenseKey string) error {
	span := trace.SpanFromContext(ctx)
	zapLog := zap.L().With(
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("license_key", licenseKey),
	)

	now := s.now()

	s.mu.Lock()
	lic, ok := s.byLicense[licenseKey]
	if !ok {
		s.mu.Unlock()
		return errutil.NotFound("license not found")
	}
	lic.Status = LicenseStatusRevoked
	lic.RevokedAt = &now
	delete(s.byLicense, lic.LicenseKey)
	delete(s.byAPI, lic.APIKey)
	id := lic.ID
	s.mu.Unlock()

	if err := s.repo.Update(ctx, id, map[string]any{
		"status":     LicenseStatusRevoked,
		"revoked_at": now,
	}); err != nil {
		zapLog.Error("failed to persist revocation", zap.Error(err))
		return errutil.Internal("failed to persist revocation", errutil.WithErr(err))
	}

	zapLog.Info("license revoked")
	return nil
}

// MarkExpired materializes the expired status for a license whose window
// has passed. Serving behavior is already correct without it; this keeps
// the store honest for reporting.
func (s *Service) MarkExpired(ctx context.Context, licenseKey string) error {
	s.mu.Lock()
	lic, ok := s.byLicense[licenseKey]
	if !ok || lic.Status != LicenseStatusActive || !s.now().After(lic.ExpirationDate) {
		s.mu.Unlock()
		return nil
	}
	lic.Status = LicenseStatusExpired
	id := lic.ID
	s.mu.Unlock()

	return s.repo.Update(ctx, id, map[string]any{"status": LicenseStatusExpired})
}

// ExpireDue sweeps every active license whose window has passed.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	now := s.now()

	s.mu.RLock()
	due := make([]string, 0)
	for key, lic := range s.byLicense {
		if lic.Status == LicenseStatusActive && now.After(lic.ExpirationDate) {
			due = append(due, key)
		}
	}
	s.mu.RUnlock()

	for _, key := range due {
		if err := s.MarkExpired(ctx, key); err != nil {
			return 0, err
		}
	}
	return len(due), nil
}

// List pages through issued licenses, newest first.
func (s *Service) List(ctx context.Context, p pagination.Pagination) ([]*License, error) {
	return s.repo.Find(ctx, &License{},
		option.ApplyPagination(p),
		option.OrderBy("created_at desc"),
	)
}
