package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/internal/application"
	"github.com/oksasatya/smart-living/internal/interface/middleware"
	"github.com/oksasatya/smart-living/pkg/response"
)

type ContactHandler struct {
	Mail   *application.MailService
	Logger *logrus.Logger
}

func NewContactHandler(mail *application.MailService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Mail: mail, Logger: logger}
}

type contactRequest struct {
	Name    string `json:"name" binding:"max=120"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// Send enqueues a contact inquiry for the support inbox.
func (h *ContactHandler) Send(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	err := h.Mail.Contact(c.Request.Context(), application.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		IP:        middleware.ClientIP(c),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusAccepted, map[string]any{"enqueued": true}, "inquiry received", nil)
}
