package revenue

import (
	"saaam-quantumgate/pkg/errutil"
	"saaam-quantumgate/services/registry"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const maxForecastMonths = 120

// growthRate is the assumed month-over-month revenue growth used by the
// sales forecast.
var growthRate = decimal.NewFromFloat(0.15)

// SnapshotSource is the registry's read-only revenue view.
type SnapshotSource interface {
	RevenueSnapshot() decimal.Decimal
}

type MonthForecast struct {
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Service reports on recurring revenue. It never writes; the registry owns
// every license record.
type Service struct {
	source SnapshotSource
}

type ServiceParams struct {
	fx.In
	Registry *registry.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{source: p.Registry}
}

// Snapshot returns the current monthly recurring revenue.
func (s *Service) Snapshot() decimal.Decimal {
	return s.source.RevenueSnapshot()
}

// Forecast projects revenue for the coming months, compounding the growth
// rate from the current snapshot. Month 1 is the snapshot itself.
func (s *Service) Forecast(months int) ([]MonthForecast, error) {
	if months < 1 || months > maxForecastMonths {
		return nil, errutil.ValidationFailed("months must be between 1 and 120")
	}

	current := s.source.RevenueSnapshot()
	factor := decimal.NewFromInt(1).Add(growthRate)

	out := make([]MonthForecast, 0, months)
	for m := 1; m <= months; m++ {
		out = append(out, MonthForecast{Month: m, Revenue: current})
		current = current.Mul(factor)
	}
	return out, nil
}
