package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/smart-living/internal/container"
	handlers "github.com/oksasatya/smart-living/internal/interface/http"
	"github.com/oksasatya/smart-living/internal/interface/middleware"
)

type ContactModule struct {
	Handler *handlers.ContactHandler
}

func NewContactModule(h *handlers.ContactHandler) *ContactModule {
	return &ContactModule{Handler: h}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/contact", rl, m.Handler.Send)
}
