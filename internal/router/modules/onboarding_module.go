package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/smart-living/internal/container"
	handlers "github.com/oksasatya/smart-living/internal/interface/http"
	"github.com/oksasatya/smart-living/internal/interface/middleware"
	"github.com/oksasatya/smart-living/pkg/helpers"
)

// OnboardingModule wires the signup wizard.
// GET  /api/onboarding/options
// POST /api/onboarding
// GET  /api/onboarding/:id
// PATCH /api/onboarding/:id
// POST /api/onboarding/:id/adjust, /school-needs, /next, /back
type OnboardingModule struct {
	Handler *handlers.OnboardingHandler
	Cookies *helpers.Manager
}

func NewOnboardingModule(h *handlers.OnboardingHandler, cookies *helpers.Manager) *OnboardingModule {
	return &OnboardingModule{Handler: h, Cookies: cookies}
}

func (m *OnboardingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/onboarding/options", m.Handler.Options)

	g := rg.Group("/onboarding")
	g.Use(
		middleware.DeviceID(m.Cookies, true),
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByDevice(), nil),
	)
	{
		g.POST("", middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIPAndPath(), nil), m.Handler.Start)
		g.GET("/:id", m.Handler.Get)
		g.PATCH("/:id", m.Handler.Update)
		g.POST("/:id/adjust", m.Handler.Adjust)
		g.POST("/:id/school-needs", m.Handler.ToggleSchoolNeed)
		g.POST("/:id/next", m.Handler.Next)
		g.POST("/:id/back", m.Handler.Back)
	}
}
