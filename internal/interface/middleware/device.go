package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/smart-living/pkg/helpers"
	"github.com/oksasatya/smart-living/pkg/response"
)

const (
	CtxDeviceIDKey = "device_id"
	DeviceHeader   = "X-Device-ID"
)

// DeviceTTL is how long an issued device cookie lives.
const DeviceTTL = 365 * 24 * time.Hour

// DeviceID resolves the visitor's device identifier from the cookie or the
// X-Device-ID header. When issue is set, a missing identifier is minted and
// returned as a cookie; otherwise the request is rejected with 401.
func DeviceID(cookies *helpers.Manager, issue bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := cookies.DeviceID(c)
		if id == "" {
			id = strings.TrimSpace(c.GetHeader(DeviceHeader))
		}
		if id == "" && issue {
			id = uuid.NewString()
			cookies.SetDeviceID(c, id, time.Now().Add(DeviceTTL))
		}
		if id == "" || len(id) > 128 {
			response.Error[any](c, http.StatusUnauthorized, "missing device id", nil)
			c.Abort()
			return
		}
		c.Set(CtxDeviceIDKey, id)
		c.Header(DeviceHeader, id)
		c.Next()
	}
}
