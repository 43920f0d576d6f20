package quote

import (
	"strings"

	"saaam-quantumgate/pkg/errutil"
	"saaam-quantumgate/services/catalog"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// Per-seat pricing by tier, on top of the tier's base price.
var perUserPrices = map[catalog.Tier]decimal.Decimal{
	catalog.TierBasic:        decimal.NewFromInt(100),
	catalog.TierProfessional: decimal.NewFromInt(200),
	catalog.TierEnterprise:   decimal.NewFromInt(300),
	catalog.TierUnlimited:    decimal.NewFromInt(500),
}

type Request struct {
	CompanyName    string `json:"company_name" binding:"required"`
	Tier           string `json:"tier" binding:"required"`
	Users          int    `json:"users"`
	DurationMonths int    `json:"duration_months" binding:"required"`
}

type Quote struct {
	CompanyName      string          `json:"company_name"`
	Tier             string          `json:"tier"`
	Users            int             `json:"users"`
	DurationMonths   int             `json:"duration_months"`
	BasePrice        decimal.Decimal `json:"base_price"`
	UserPrice        decimal.Decimal `json:"user_price"`
	DurationDiscount decimal.Decimal `json:"duration_discount"`
	Total            decimal.Decimal `json:"total"`
	MonthlyPayment   decimal.Decimal `json:"monthly_payment"`
}

// Service prices prospective contracts off the live catalog. It holds no
// state and issues nothing; quotes are advisory.
type Service struct {
	catalog *catalog.Catalog
}

type ServiceParams struct {
	fx.In
	Catalog *catalog.Catalog
}

func NewService(p ServiceParams) *Service {
	return &Service{catalog: p.Catalog}
}

// Generate prices a contract: (base + perUser * users) * months, less the
// duration discount.
func (s *Service) Generate(req Request) (*Quote, error) {
	companyName := strings.TrimSpace(req.CompanyName)
	if companyName == "" {
		return nil, errutil.ValidationFailed("company_name must not be empty")
	}
	if req.Users < 0 {
		return nil, errutil.ValidationFailed("users must not be negative")
	}
	if req.DurationMonths < 1 {
		return nil, errutil.ValidationFailed("duration_months must be at least 1")
	}

	tier, err := catalog.ParseTier(req.Tier)
	if err != nil {
		return nil, err
	}
	profile, err := s.catalog.Lookup(tier)
	if err != nil {
		return nil, err
	}

	userPrice := perUserPrices[tier].Mul(decimal.NewFromInt(int64(req.Users)))
	discount := durationDiscount(req.DurationMonths)
	months := decimal.NewFromInt(int64(req.DurationMonths))

	total := profile.MonthlyPrice.Add(userPrice).
		Mul(months).
		Mul(decimal.NewFromInt(1).Sub(discount))

	return &Quote{
		CompanyName:      companyName,
		Tier:             tier.Code(),
		Users:            req.Users,
		DurationMonths:   req.DurationMonths,
		BasePrice:        profile.MonthlyPrice,
		UserPrice:        userPrice,
		DurationDiscount: discount,
		Total:            total,
		MonthlyPayment:   total.Div(months),
	}, nil
}

func durationDiscount(months int) decimal.Decimal {
	switch {
	case months >= 12:
		return decimal.NewFromFloat(0.20)
	case months >= 6:
		return decimal.NewFromFloat(0.10)
	default:
		return decimal.Zero
	}
}
