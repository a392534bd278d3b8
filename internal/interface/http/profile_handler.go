package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/application"
	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/pkg/response"
)

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, redirect, err := h.Svc.GetProfile(c.Request.Context(), owner(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if redirect != nil {
		response.Success[any](c, http.StatusOK, nil, "no profile yet", nil, response.WithRedirect(redirect))
		return
	}
	response.Success(c, http.StatusOK, newProfileView(*p), "ok", nil)
}

// updateProfileRequest is the full editor form. Numeric and enumeration fields
// must be present; identity fields may be blank. A blank password keeps the
// stored one.
type updateProfileRequest struct {
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Password      string             `json:"password"`
	HouseholdSize *int               `json:"householdSize" binding:"required,gte=1,lte=10"`
	Children      *int               `json:"children" binding:"required,gte=0,lte=10"`
	SchoolNeeds   []string           `json:"schoolNeeds" binding:"omitempty,unique,dive,schoolneed"`
	Income        *int               `json:"income" binding:"required,gte=30000,lte=300000,incomestep"`
	Education     string             `json:"education" binding:"omitempty,education"`
	Priorities    *entity.Priorities `json:"priorities" binding:"required"`
	Gender        string             `json:"gender" binding:"omitempty,gender"`
	Ethnicity     string             `json:"ethnicity" binding:"omitempty,ethnicity"`
}

func (r updateProfileRequest) toEntity() entity.Profile {
	needs := append([]string{}, r.SchoolNeeds...)
	return entity.Profile{
		Name:          r.Name,
		Email:         r.Email,
		Password:      r.Password,
		HouseholdSize: *r.HouseholdSize,
		Children:      *r.Children,
		SchoolNeeds:   needs,
		Income:        *r.Income,
		Education:     r.Education,
		Priorities:    *r.Priorities,
		Gender:        r.Gender,
		Ethnicity:     r.Ethnicity,
	}
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Svc.SaveProfile(c.Request.Context(), owner(c), req.toEntity())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, newProfileView(res.Profile), res.Notification.Message, nil,
		response.WithNotifications([]entity.Notification{res.Notification}),
		response.WithRedirect(res.Redirect))
}
