package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/journal-terminal/internal/auth"
	"github.com/suPer8Hu/journal-terminal/internal/common"
)

const CtxDeviceID = "device_id"

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(tok)
}

// DeviceRequired rejects requests without a valid device token.
func DeviceRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c)
		if tok == "" {
			common.Fail(c, http.StatusUnauthorized, common.CodeUnauthorized, "missing device token")
			c.Abort()
			return
		}
		id, err := auth.ParseDevice(tok, secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, common.CodeUnauthorized, "invalid device token")
			c.Abort()
			return
		}
		c.Set(CtxDeviceID, id)
		c.Next()
	}
}

// DeviceOptional records the device id when a valid token is present and never rejects.
func DeviceOptional(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := bearer(c); tok != "" {
			if id, err := auth.ParseDevice(tok, secret); err == nil {
				c.Set(CtxDeviceID, id)
			}
		}
		c.Next()
	}
}
