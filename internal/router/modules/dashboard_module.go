package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/smart-living/internal/container"
	handlers "github.com/oksasatya/smart-living/internal/interface/http"
	"github.com/oksasatya/smart-living/internal/interface/middleware"
	"github.com/oksasatya/smart-living/pkg/helpers"
)

type DashboardModule struct {
	Handler *handlers.DashboardHandler
	Cookies *helpers.Manager
}

func NewDashboardModule(h *handlers.DashboardHandler, cookies *helpers.Manager) *DashboardModule {
	return &DashboardModule{Handler: h, Cookies: cookies}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	// each load may call the completion API, keep it tight
	rg.GET("/dashboard",
		middleware.DeviceID(m.Cookies, true),
		middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByDevice(), nil),
		m.Handler.Get,
	)
}
