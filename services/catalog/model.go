package catalog

import (
	"fmt"
	"strings"

	"saaam-quantumgate/pkg/errutil"
	"saaam-quantumgate/services/ratelimit"

	"github.com/shopspring/decimal"
)

type Tier string

const (
	TierBasic        Tier = "BASIC"
	TierProfessional Tier = "PROFESSIONAL"
	TierEnterprise   Tier = "ENTERPRISE"
	TierUnlimited    Tier = "UNLIMITED"
)

// tierRank orders tiers from cheapest to most capable.
var tierRank = map[Tier]int{
	TierBasic:        0,
	TierProfessional: 1,
	TierEnterprise:   2,
	TierUnlimited:    3,
}

func (t Tier) Rank() int {
	return tierRank[t]
}

// Code is the wire value carried inside derived license keys.
func (t Tier) Code() string {
	switch t {
	case TierBasic:
		return "QUANTUM_BASIC"
	case TierProfessional:
		return "QUANTUM_PRO"
	case TierEnterprise:
		return "QUANTUM_ENTERPRISE"
	case TierUnlimited:
		return "QUANTUM_UNLIMITED"
	default:
		return ""
	}
}

func (t Tier) String() string {
	return string(t)
}

// ParseTier accepts a tier name or its wire code, case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BASIC", "QUANTUM_BASIC":
		return TierBasic, nil
	case "PROFESSIONAL", "QUANTUM_PRO":
		return TierProfessional, nil
	case "ENTERPRISE", "QUANTUM_ENTERPRISE":
		return TierEnterprise, nil
	case "UNLIMITED", "QUANTUM_UNLIMITED":
		return TierUnlimited, nil
	default:
		return "", errutil.ValidationFailed(fmt.Sprintf("unrecognized tier %q", s))
	}
}

// TierProfile is a tier's entitlement bundle. Profiles are immutable once
// the table is built; repricing replaces the whole table.
type TierProfile struct {
	Tier               Tier                `json:"tier"`
	ResourceAllocation int                 `json:"resource_allocation"`
	Ceiling            ratelimit.Ceiling   `json:"max_requests_per_second"`
	Features           []string            `json:"entitled_features"`
	MonthlyPrice       decimal.Decimal     `json:"monthly_price"`
	AccessLevel        float64             `json:"access_level"`

	featureSet map[string]struct{}
}

func (p *TierProfile) HasFeature(feature string) bool {
	_, ok := p.featureSet[feature]
	return ok
}

func (p *TierProfile) buildFeatureSet() {
	p.featureSet = make(map[string]struct{}, len(p.Features))
	for _, f := range p.Features {
		p.featureSet[f] = struct{}{}
	}
}
