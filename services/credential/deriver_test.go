package credential

import (
	"fmt"
	"regexp"
	"testing"

	"saaam-quantumgate/services/catalog"

	"github.com/stretchr/testify/require"
)

var (
	licenseKeyPattern = regexp.MustCompile(`^SAAAM-[0-9a-f]{32}$`)
	apiKeyPattern     = regexp.MustCompile(`^saam-api-[0-9a-f]{48}$`)
)

func TestLicenseKeyFormat(t *testing.T) {
	nonce, err := NewNonce()
	require.NoError(t, err)
	require.Len(t, nonce, 32)

	key := LicenseKey("TechCorp", catalog.TierEnterprise, nonce)
	require.Regexp(t, licenseKeyPattern, key)
}

func TestLicenseKeyDeterministic(t *testing.T) {
	a := LicenseKey("TechCorp", catalog.TierEnterprise, "0123456789abcdef0123456789abcdef")
	b := LicenseKey("TechCorp", catalog.TierEnterprise, "0123456789abcdef0123456789abcdef")
	require.Equal(t, a, b)

	c := LicenseKey("TechCorp", catalog.TierEnterprise, "ffffffffffffffffffffffffffffffff")
	require.NotEqual(t, a, c)

	d := LicenseKey("TechCorp", catalog.TierBasic, "0123456789abcdef0123456789abcdef")
	require.NotEqual(t, a, d)
}

func TestAPIKeyFormat(t *testing.T) {
	key := APIKey(LicenseKey("TechCorp", catalog.TierEnterprise, "00000000000000000000000000000000"))
	require.Regexp(t, apiKeyPattern, key)
}

func TestAPIKeyNotDerivedFromCompanyData(t *testing.T) {
	// Same company and tier, different nonces: the API keys must differ,
	// proving the API key depends only on the license key.
	lk1 := LicenseKey("TechCorp", catalog.TierEnterprise, "00000000000000000000000000000001")
	lk2 := LicenseKey("TechCorp", catalog.TierEnterprise, "00000000000000000000000000000002")
	require.NotEqual(t, APIKey(lk1), APIKey(lk2))

	// And identical license keys map to identical API keys.
	require.Equal(t, APIKey(lk1), APIKey(lk1))
}

func TestNoCollisionsInLargeSample(t *testing.T) {
	licenseKeys := make(map[string]struct{}, 5000)
	apiKeys := make(map[string]struct{}, 5000)

	for i := 0; i < 5000; i++ {
		lk := LicenseKey("TechCorp", catalog.TierEnterprise, fmt.Sprintf("%032x", i))
		ak := APIKey(lk)

		_, dup := licenseKeys[lk]
		require.False(t, dup, "license key collision at %d", i)
		licenseKeys[lk] = struct{}{}

		_, dup = apiKeys[ak]
		require.False(t, dup, "api key collision at %d", i)
		apiKeys[ak] = struct{}{}
	}
}

func TestNonceRandomness(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		n, err := NewNonce()
		require.NoError(t, err)
		_, dup := seen[n]
		require.False(t, dup)
		seen[n] = struct{}{}
	}
}
