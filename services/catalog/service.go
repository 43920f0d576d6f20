package catalog

import (
	"fmt"
	"sort"
	"sync/atomic"

	"saaam-quantumgate/pkg/config"
	"saaam-quantumgate/pkg/errutil"
	"saaam-quantumgate/services/ratelimit"

	"github.com/shopspring/decimal"
)

// Catalog is the read-only tier table. Lookups race-freely observe either
// the old or the new table during a Swap, never a partial edit.
type Catalog struct {
	table atomic.Value // []TierProfile, rank-ordered, feature sets built
}

func defaultProfiles() []TierProfile {
	return []TierProfile{
		{
			Tier:               TierBasic,
			ResourceAllocation: 128,
			Ceiling:            ratelimit.PerSecond(10),
			Features: []string{
				"quantum_processing",
				"basic_optimization",
				"pattern_recognition",
			},
			MonthlyPrice: decimal.NewFromInt(10000),
			AccessLevel:  0.25,
		},
		{
			Tier:               TierProfessional,
			ResourceAllocation: 512,
			Ceiling:            ratelimit.PerSecond(50),
			Features: []string{
				"quantum_processing",
				"basic_optimization",
				"pattern_recognition",
				"advanced_optimization",
				"quantum_ml",
				"parallel_processing",
			},
			MonthlyPrice: decimal.NewFromInt(50000),
			AccessLevel:  0.50,
		},
		{
			Tier:               TierEnterprise,
			ResourceAllocation: 1024,
			Ceiling:            ratelimit.PerSecond(250),
			Features: []string{
				"quantum_processing",
				"basic_optimization",
				"pattern_recognition",
				"advanced_optimization",
				"quantum_ml",
				"parallel_processing",
				"custom_quantum_circuits",
				"priority_support",
				"dedicated_infrastructure",
			},
			MonthlyPrice: decimal.NewFromInt(250000),
			AccessLevel:  0.75,
		},
		{
			Tier:               TierUnlimited,
			ResourceAllocation: 2048,
			Ceiling:            ratelimit.Unbounded(),
			Features: []string{
				"quantum_processing",
				"basic_optimization",
				"pattern_recognition",
				"advanced_optimization",
				"quantum_ml",
				"parallel_processing",
				"custom_quantum_circuits",
				"priority_support",
				"dedicated_infrastructure",
				"unlimited_scaling",
				"direct_quantum_access",
				"custom_development",
			},
			MonthlyPrice: decimal.NewFromInt(1000000),
			AccessLevel:  0.95,
		},
	}
}

// New builds the catalog from compiled-in defaults with any configuration
// overrides applied, validating the table once at load time.
func New(cfg *config.Config) (*Catalog, error) {
	profiles := defaultProfiles()

	for _, o := range cfg.Catalog {
		tier, err := ParseTier(o.Tier)
		if err != nil {
			return nil, fmt.Errorf("catalog override: %w", err)
		}
		for i := range profiles {
			if profiles[i].Tier != tier {
				continue
			}
			if o.ResourceAllocation > 0 {
				profiles[i].ResourceAllocation = o.ResourceAllocation
			}
			if o.RequestsPerSecond != "" {
				c, err := ratelimit.ParseCeiling(o.RequestsPerSecond)
				if err != nil {
					return nil, fmt.Errorf("catalog override for %s: %w", tier, err)
				}
				profiles[i].Ceiling = c
			}
			if len(o.Features) > 0 {
				profiles[i].Features = o.Features
			}
			if o.MonthlyPrice != "" {
				price, err := decimal.NewFromString(o.MonthlyPrice)
				if err != nil {
					return nil, fmt.Errorf("catalog override for %s: %w", tier, err)
				}
				profiles[i].MonthlyPrice = price
			}
			if o.AccessLevel > 0 {
				profiles[i].AccessLevel = o.AccessLevel
			}
		}
	}

	c := &Catalog{}
	if err := c.Swap(profiles); err != nil {
		return nil, err
	}
	return c, nil
}

// Swap validates and atomically replaces the whole tier table.
func (c *Catalog) Swap(profiles []TierProfile) error {
	table := make([]TierProfile, len(profiles))
	copy(table, profiles)

	sort.Slice(table, func(i, j int) bool {
		return table[i].Tier.Rank() < table[j].Tier.Rank()
	})

	if err := validate(table); err != nil {
		return err
	}

	for i := range table {
		table[i].buildFeatureSet()
	}

	c.table.Store(table)
	return nil
}

func validate(table []TierProfile) error {
	if len(table) == 0 {
		return fmt.Errorf("tier table is empty")
	}

	for i := range table {
		p := &table[i]
		if p.Tier.Code() == "" {
			return fmt.Errorf("unrecognized tier %q", p.Tier)
		}
		if p.AccessLevel <= 0 || p.AccessLevel >= 1.0 {
			return fmt.Errorf("tier %s: access level %v must be in (0,1)", p.Tier, p.AccessLevel)
		}
		if p.ResourceAllocation <= 0 {
			return fmt.Errorf("tier %s: resource allocation must be positive", p.Tier)
		}
		if !p.MonthlyPrice.IsPositive() {
			return fmt.Errorf("tier %s: monthly price must be positive", p.Tier)
		}
	}

	for i := 1; i < len(table); i++ {
		lo, hi := &table[i-1], &table[i]
		if hi.MonthlyPrice.Cmp(lo.MonthlyPrice) <= 0 {
			return fmt.Errorf("tier %s: monthly price must exceed %s", hi.Tier, lo.Tier)
		}
		if hi.ResourceAllocation <= lo.ResourceAllocation {
			return fmt.Errorf("tier %s: resource allocation must exceed %s", hi.Tier, lo.Tier)
		}
		if hi.AccessLevel <= lo.AccessLevel {
			return fmt.Errorf("tier %s: access level must exceed %s", hi.Tier, lo.Tier)
		}
		hiSet := make(map[string]struct{}, len(hi.Features))
		for _, f := range hi.Features {
			hiSet[f] = struct{}{}
		}
		for _, f := range lo.Features {
			if _, ok := hiSet[f]; !ok {
				return fmt.Errorf("tier %s: missing feature %q entitled to lower tier %s", hi.Tier, f, lo.Tier)
			}
		}
	}

	return nil
}

// Lookup returns the profile for the tier, or an internal error: a
// recognized tier absent from the table is a configuration fault.
func (c *Catalog) Lookup(tier Tier) (*TierProfile, error) {
	table := c.table.Load().([]TierProfile)
	for i := range table {
		if table[i].Tier == tier {
			p := table[i]
			return &p, nil
		}
	}
	return nil, errutil.Internal(fmt.Sprintf("tier %s not present in catalog", tier))
}

// Tiers enumerates the table in rank order for operator inspection.
func (c *Catalog) Tiers() []TierProfile {
	table := c.table.Load().([]TierProfile)
	out := make([]TierProfile, len(table))
	copy(out, table)
	return out
}
