package middleware

import (
	"github.com/gin-gonic/gin"
)

const CtxRealIPKey = "real_ip"

// TrustProxies limits which peers may speak for the client. Forwarding
// headers (X-Forwarded-For, X-Real-IP) are honored only when the direct peer
// is in proxies; an empty list trusts nobody. cloudflare additionally trusts
// CF-Connecting-IP, which gin reads without a peer check, so enable it only
// when all traffic arrives through Cloudflare.
func TrustProxies(engine *gin.Engine, proxies []string, cloudflare bool) error {
	if err := engine.SetTrustedProxies(proxies); err != nil {
		return err
	}
	engine.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}
	if cloudflare {
		engine.TrustedPlatform = gin.PlatformCloudflare
	} else {
		engine.TrustedPlatform = ""
	}
	return nil
}

// RealIP stores the visitor address under CtxRealIPKey for rate limiting and
// contact emails. The address comes from c.ClientIP(), so it follows the
// engine's TrustProxies settings.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, c.ClientIP())
		c.Next()
	}
}

// ClientIP returns the address stored by RealIP, or c.ClientIP() when the
// middleware did not run.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}
