// Package credential derives license and API keys. Both derivations are
// one-way: the API key is hashed from the license key, never from company
// data, so a leaked API key cannot be used to forge license keys.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"saaam-quantumgate/services/catalog"
)

const (
	LicenseKeyPrefix = "SAAAM-"
	APIKeyPrefix     = "saam-api-"

	licenseDigestLen = 32
	apiDigestLen     = 48
)

// NewNonce returns 32 hex characters from a cryptographically strong
// source. Uniqueness of derived keys is the registry's job, not ours.
func NewNonce() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// LicenseKey derives a license key from the issuer-visible identity, the
// tier wire code and a per-issuance nonce. Deterministic given its inputs.
func LicenseKey(companyName string, tier catalog.Tier, nonce string) string {
	base := fmt.Sprintf("%s-%s-%s", companyName, tier.Code(), nonce)
	sum := sha256.Sum256([]byte(base))
	return LicenseKeyPrefix + hex.EncodeToString(sum[:])[:licenseDigestLen]
}

// APIKey derives the API key from the license key alone.
func APIKey(licenseKey string) string {
	sum := sha256.Sum256([]byte(licenseKey))
	return APIKeyPrefix + hex.EncodeToString(sum[:])[:apiDigestLen]
}
