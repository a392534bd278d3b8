package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/smart-living/internal/container"
	handlers "github.com/oksasatya/smart-living/internal/interface/http"
	"github.com/oksasatya/smart-living/internal/interface/middleware"
)

// RecommendationModule exposes the completion proxy at POST /api/recommendations.
type RecommendationModule struct {
	Handler *handlers.RecommendationHandler
}

func NewRecommendationModule(h *handlers.RecommendationHandler) *RecommendationModule {
	return &RecommendationModule{Handler: h}
}

func (m *RecommendationModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP(), nil)
	rg.POST("/recommendations", rl, m.Handler.Create)
}
