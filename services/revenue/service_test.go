package revenue

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fixedSource struct {
	total decimal.Decimal
}

func (f fixedSource) RevenueSnapshot() decimal.Decimal {
	return f.total
}

func TestSnapshot(t *testing.T) {
	svc := &Service{source: fixedSource{total: decimal.NewFromInt(310000)}}
	require.True(t, svc.Snapshot().Equal(decimal.NewFromInt(310000)))
}

func TestForecastCompounds(t *testing.T) {
	svc := &Service{source: fixedSource{total: decimal.NewFromInt(100000)}}

	forecast, err := svc.Forecast(3)
	require.NoError(t, err)
	require.Len(t, forecast, 3)

	require.True(t, forecast[0].Revenue.Equal(decimal.NewFromInt(100000)))
	require.True(t, forecast[1].Revenue.Equal(decimal.NewFromInt(115000)))
	require.True(t, forecast[2].Revenue.Equal(decimal.NewFromFloat(132250)))

	for i, m := range forecast {
		require.Equal(t, i+1, m.Month)
	}
}

func TestForecastBounds(t *testing.T) {
	svc := &Service{source: fixedSource{total: decimal.NewFromInt(100000)}}

	_, err := svc.Forecast(0)
	require.Error(t, err)

	_, err = svc.Forecast(121)
	require.Error(t, err)

	forecast, err := svc.Forecast(1)
	require.NoError(t, err)
	require.Len(t, forecast, 1)
}

func TestForecastZeroRevenue(t *testing.T) {
	svc := &Service{source: fixedSource{total: decimal.Zero}}

	forecast, err := svc.Forecast(6)
	require.NoError(t, err)
	for _, m := range forecast {
		require.True(t, m.Revenue.IsZero())
	}
}
