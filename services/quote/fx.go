package quote

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"saaam-quantumgate/pkg/errutil"
)

var Module = fx.Module("quote.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("quote.server",
	Module,
	fx.Invoke(registerRoutes),
)

func registerRoutes(r *gin.Engine, s *Service) {
	r.POST("/v1/quotes", func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(errutil.ValidationFailed(err.Error()))
			return
		}

		q, err := s.Generate(req)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, q)
	})
}
