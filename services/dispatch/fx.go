package dispatch

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"saaam-quantumgate/pkg/errutil"
)

var Module = fx.Module("dispatch.module",
	fx.Provide(
		DefaultExecutors,
		NewService,
	),
)

var ServerModule = fx.Module("dispatch.server",
	Module,
	fx.Invoke(registerRoutes),
)

type dispatchRequest struct {
	APIKey          string          `json:"api_key" binding:"required"`
	RequiredFeature string          `json:"required_feature" binding:"required"`
	Payload         json.RawMessage `json:"payload"`
}

func registerRoutes(r *gin.Engine, s *Service) {
	r.POST("/v1/dispatch", func(c *gin.Context) {
		var req dispatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(errutil.ValidationFailed(err.Error()))
			return
		}

		resp, err := s.Handle(c.Request.Context(), req.APIKey, Request{
			RequiredFeature: req.RequiredFeature,
			Payload:         req.Payload,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, resp)
	})
}
