package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/application"
	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/pkg/response"
)

type DashboardHandler struct {
	Svc    *application.DashboardService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

type dashboardView struct {
	Greeting        string                              `json:"greeting"`
	Profile         profileView                         `json:"profile"`
	Recommendations []entity.NeighborhoodRecommendation `json:"recommendations"`
	Source          string                              `json:"source"`
}

func (h *DashboardHandler) Get(c *gin.Context) {
	view, err := h.Svc.Load(c.Request.Context(), owner(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if view.Redirect != nil {
		response.Success[any](c, http.StatusOK, nil, "no profile yet", nil, response.WithRedirect(view.Redirect))
		return
	}
	response.Success(c, http.StatusOK, dashboardView{
		Greeting:        view.Greeting,
		Profile:         newProfileView(*view.Profile),
		Recommendations: view.Recommendations,
		Source:          view.Source,
	}, "ok", nil, response.WithNotifications(view.Notifications))
}
