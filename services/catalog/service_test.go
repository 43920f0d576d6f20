package catalog

import (
	"testing"

	"saaam-quantumgate/pkg/config"
	"saaam-quantumgate/services/ratelimit"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestDefaultCatalogValid(t *testing.T) {
	c, err := New(&config.Config{})
	require.NoError(t, err)

	tiers := c.Tiers()
	require.Len(t, tiers, 4)
	require.Equal(t, TierBasic, tiers[0].Tier)
	require.Equal(t, TierUnlimited, tiers[3].Tier)

	ent, err := c.Lookup(TierEnterprise)
	require.NoError(t, err)
	require.Equal(t, 1024, ent.ResourceAllocation)
	require.Equal(t, 250, ent.Ceiling.PerSecondValue())
	require.True(t, ent.MonthlyPrice.Equal(decimal.NewFromInt(250000)))
	require.InDelta(t, 0.75, ent.AccessLevel, 1e-9)
	require.True(t, ent.HasFeature("priority_support"))

	unl, err := c.Lookup(TierUnlimited)
	require.NoError(t, err)
	require.True(t, unl.Ceiling.IsUnbounded())
}

func TestTierMonotonicity(t *testing.T) {
	c, err := New(&config.Config{})
	require.NoError(t, err)

	tiers := c.Tiers()
	for i := 1; i < len(tiers); i++ {
		lo, hi := tiers[i-1], tiers[i]
		require.True(t, hi.MonthlyPrice.GreaterThan(lo.MonthlyPrice))
		require.Greater(t, hi.ResourceAllocation, lo.ResourceAllocation)
		require.Greater(t, hi.AccessLevel, lo.AccessLevel)
		require.Less(t, hi.AccessLevel, 1.0)
		for _, f := range lo.Features {
			require.True(t, hi.HasFeature(f), "tier %s missing %s", hi.Tier, f)
		}
	}
}

func TestSwapRejectsSupersetViolation(t *testing.T) {
	c, err := New(&config.Config{})
	require.NoError(t, err)

	broken := defaultProfiles()
	broken[3].Features = []string{"quantum_processing"} // UNLIMITED loses lower-tier features
	require.Error(t, c.Swap(broken))

	// The serving table must be untouched after a rejected swap.
	unl, err := c.Lookup(TierUnlimited)
	require.NoError(t, err)
	require.True(t, unl.HasFeature("priority_support"))
}

func TestSwapRejectsPriceInversion(t *testing.T) {
	c, err := New(&config.Config{})
	require.NoError(t, err)

	broken := defaultProfiles()
	broken[1].MonthlyPrice = decimal.NewFromInt(5000) // below BASIC
	require.Error(t, c.Swap(broken))
}

func TestSwapRejectsFullAccess(t *testing.T) {
	c, err := New(&config.Config{})
	require.NoError(t, err)

	broken := defaultProfiles()
	broken[3].AccessLevel = 1.0
	require.Error(t, c.Swap(broken))
}

func TestLookupUnknownTier(t *testing.T) {
	c, err := New(&config.Config{})
	require.NoError(t, err)

	_, err = c.Lookup(Tier("PLATINUM"))
	require.Error(t, err)
}

func TestConfigOverride(t *testing.T) {
	cfg := &config.Config{
		Catalog: []config.TierOverride{
			{Tier: "BASIC", RequestsPerSecond: "20"},
		},
	}
	c, err := New(cfg)
	require.NoError(t, err)

	basic, err := c.Lookup(TierBasic)
	require.NoError(t, err)
	require.Equal(t, ratelimit.PerSecond(20), basic.Ceiling)
}

func TestParseTier(t *testing.T) {
	for in, want := range map[string]Tier{
		"basic":              TierBasic,
		"QUANTUM_PRO":        TierProfessional,
		" enterprise ":       TierEnterprise,
		"QUANTUM_UNLIMITED":  TierUnlimited,
	} {
		got, err := ParseTier(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseTier("GOLD")
	require.Error(t, err)
}
