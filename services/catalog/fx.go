package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.module",
	fx.Provide(New),
)

var ServerModule = fx.Module("catalog.server",
	Module,
	fx.Invoke(registerRoutes),
)

func registerRoutes(r *gin.Engine, c *Catalog) {
	r.GET("/v1/tiers", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"tiers": c.Tiers()})
	})
}
