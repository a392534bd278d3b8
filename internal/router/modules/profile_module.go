package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/smart-living/internal/container"
	handlers "github.com/oksasatya/smart-living/internal/interface/http"
	"github.com/oksasatya/smart-living/internal/interface/middleware"
	"github.com/oksasatya/smart-living/pkg/helpers"
)

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Cookies *helpers.Manager
}

func NewProfileModule(h *handlers.ProfileHandler, cookies *helpers.Manager) *ProfileModule {
	return &ProfileModule{Handler: h, Cookies: cookies}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/profile")
	g.Use(
		middleware.DeviceID(m.Cookies, true),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByDevice(), nil),
	)
	{
		g.GET("", m.Handler.Get)
		g.PUT("", m.Handler.Update)
	}
}
