package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const DeviceCookie = "device_id"

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// DeviceID returns the device identifier cookie, or "" when absent.
func (m *Manager) DeviceID(c *gin.Context) string {
	v, err := c.Cookie(DeviceCookie)
	if err != nil {
		return ""
	}
	return v
}

// SetDeviceID stores the long-lived device identifier that keys a visitor's profile.
func (m *Manager) SetDeviceID(c *gin.Context, deviceID string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DeviceCookie, deviceID, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DeviceCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
