package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/application"
	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/pkg/response"
)

// RecommendationHandler is the server-side proxy to the completion service.
// Clients send the reduced profile; the API key stays in this process.
type RecommendationHandler struct {
	Svc    application.Recommender
	Logger *logrus.Logger
}

func NewRecommendationHandler(svc application.Recommender, logger *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{Svc: svc, Logger: logger}
}

func (h *RecommendationHandler) Create(c *gin.Context) {
	var in entity.RecommendationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	if err := entity.ShapeValidator().Struct(in.Priorities); err != nil {
		bindError(c, err)
		return
	}
	recs, err := h.Svc.Recommend(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, recs, "ok", nil)
}
