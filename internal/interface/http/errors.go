package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/application"
	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/internal/interface/middleware"
	"github.com/oksasatya/smart-living/pkg/response"
	"github.com/oksasatya/smart-living/pkg/validation"
)

func owner(c *gin.Context) string { return c.GetString(middleware.CtxDeviceIDKey) }

func details(err error) interface{} {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validation.ToDetails(verrs)
	}
	return map[string]string{"payload": err.Error()}
}

// writeError maps service errors onto HTTP statuses. Unknown errors are logged
// and reported as 500 without detail.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *entity.WizardValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusUnprocessableEntity, verr.Message, map[string]string{"step": verr.Step.String()},
			response.WithNotifications([]entity.Notification{entity.Failure(verr.Message)}))
	case errors.Is(err, application.ErrWizardNotFound), errors.Is(err, application.ErrWizardOwner):
		response.Error[any](c, http.StatusNotFound, "onboarding session not found", nil)
	case errors.Is(err, entity.ErrWizardFinished):
		response.Error[any](c, http.StatusConflict, "onboarding already completed", nil)
	case errors.Is(err, application.ErrInvalidSelection),
		errors.Is(err, application.ErrUnknownField),
		errors.Is(err, application.ErrUnknownAction),
		errors.Is(err, entity.ErrInvalidProfile):
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid profile values", details(err))
	case errors.Is(err, application.ErrCorruptProfile):
		response.Error[any](c, http.StatusUnprocessableEntity, "stored profile is unreadable", nil,
			response.WithNotifications([]entity.Notification{entity.Failure(application.MsgCorruptProfile)}),
			response.WithRedirect(entity.RedirectTo(entity.ScreenOnboarding, 0)))
	case errors.Is(err, application.ErrRecommendationUnavailable):
		response.Error[any](c, http.StatusBadGateway, "recommendations unavailable", nil)
	case errors.Is(err, application.ErrMailDisabled), errors.Is(err, application.ErrNoContactInbox):
		response.Error[any](c, http.StatusServiceUnavailable, "contact form unavailable", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"path":       c.FullPath(),
				"request_id": c.GetString("request_id"),
				"device_id":  owner(c),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
