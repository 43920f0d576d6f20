package dispatch

import (
	"sync"
	"time"

	"saaam-quantumgate/services/registry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{Name: "gateway_entitlement_cache_hits_total"})
	cacheMiss = promauto.NewCounter(prometheus.CounterOpts{Name: "gateway_entitlement_cache_miss_total"})
)

type entitlementSet struct {
	features  map[string]struct{}
	updatedAt time.Time
}

// entitlementCache materializes a license's frozen feature snapshot as a
// set for O(1) membership checks. thread-safe + singleflight
type entitlementCache struct {
	mu    sync.RWMutex
	items map[string]*entitlementSet
	ttl   time.Duration
	group singleflight.Group
}

func newEntitlementCache(ttl time.Duration) *entitlementCache {
	return &entitlementCache{
		items: make(map[string]*entitlementSet),
		ttl:   ttl,
	}
}

func (c *entitlementCache) get(key string) (*entitlementSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	if !ok || (c.ttl > 0 && time.Since(v.updatedAt) > c.ttl) {
		return nil, false
	}
	return v, true
}

func (c *entitlementCache) set(key string, v *entitlementSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = v
}

// resolve returns the feature set for the license, building it at most
// once per TTL window even under concurrent misses.
func (c *entitlementCache) resolve(lic *registry.License) map[string]struct{} {
	if v, ok := c.get(lic.LicenseKey); ok {
		cacheHits.Inc()
		return v.features
	}
	cacheMiss.Inc()

	v, _, _ := c.group.Do(lic.LicenseKey, func() (interface{}, error) {
		set := make(map[string]struct{}, len(lic.Features))
		for _, f := range lic.Features {
			set[f] = struct{}{}
		}
		built := &entitlementSet{features: set, updatedAt: time.Now()}
		c.set(lic.LicenseKey, built)
		return built, nil
	})

	return v.(*entitlementSet).features
}
