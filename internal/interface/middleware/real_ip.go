package middleware

import (
	"github.com/gin-gonic/gin"
)

// ProxyIPHeaders are consulted, in order, when the peer is a trusted proxy.
var ProxyIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// TrustProxies makes c.ClientIP honour ProxyIPHeaders only for requests whose
// peer address is in proxies (IPs or CIDRs). With no proxies every header is
// ignored and the socket address is used.
func TrustProxies(r *gin.Engine, proxies []string) error {
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = ProxyIPHeaders
	if len(proxies) == 0 {
		proxies = nil
	}
	return r.SetTrustedProxies(proxies)
}

// RealIP sets the client IP into Gin context (key: "real_ip"), as resolved by
// the engine's trusted proxy settings.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = c.RemoteIP()
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}
