package registry

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("registry.module",
	fx.Provide(
		ProvideNode,
		NewService,
	),
	fx.Invoke(registerLoad),
)

var ServerModule = fx.Module("registry.server",
	Module,
	fx.Invoke(registerRoutes),
)

func ProvideNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func registerLoad(lc fx.Lifecycle, db *gorm.DB, s *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.AutoMigrate(&License{}); err != nil {
				return err
			}
			return s.Load(ctx)
		},
	})
}

func registerRoutes(r *gin.Engine, s *Service) {
	h := &handler{service: s}
	r.POST("/v1/licenses", h.issue)
	r.GET("/v1/licenses", h.list)
	r.POST("/v1/licenses/:license_key/renew", h.renew)
	r.DELETE("/v1/licenses/:license_key", h.revoke)
}
