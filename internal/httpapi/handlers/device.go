package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suPer8Hu/journal-terminal/internal/auth"
	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/config"
)

type deviceReq struct {
	DeviceID string `json:"device_id"`
}

// IssueDevice signs a token for a terminal install, minting an id when none is sent.
func (h *Handler) IssueDevice(c *gin.Context) {
	var req deviceReq
	_ = c.ShouldBindJSON(&req) // allow empty body

	id := strings.TrimSpace(req.DeviceID)
	if id == "" {
		id = uuid.NewString()
	}
	if len(id) > 64 || strings.ContainsAny(id, `/\ :`) {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidParam, "invalid device_id")
		return
	}

	ttl := config.Duration(h.Cfg.DeviceTokenTTL, 720*time.Hour)
	tok, err := auth.SignDevice(id, h.Cfg.DeviceSecret, ttl)
	if err != nil {
		h.internal(c, "sign device token", err)
		return
	}
	common.OK(c, gin.H{
		"device_id":  id,
		"token":      tok,
		"expires_in": int64(ttl.Seconds()),
	})
}
