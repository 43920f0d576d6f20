package revenue

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"saaam-quantumgate/pkg/errutil"
)

var Module = fx.Module("revenue.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("revenue.server",
	Module,
	fx.Invoke(registerRoutes),
)

func registerRoutes(r *gin.Engine, s *Service) {
	r.GET("/v1/revenue/snapshot", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"monthly_revenue": s.Snapshot()})
	})

	r.GET("/v1/revenue/forecast", func(c *gin.Context) {
		months, err := strconv.Atoi(c.DefaultQuery("months", "12"))
		if err != nil {
			_ = c.Error(errutil.ValidationFailed("months must be an integer"))
			return
		}

		forecast, err := s.Forecast(months)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"forecast": forecast})
	})
}
