package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/journal-terminal/internal/common"
)

func (h *Handler) ListAchievements(c *gin.Context) {
	statuses, summary, err := h.achievements.List(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		h.internal(c, "list achievements", err)
		return
	}
	common.OK(c, gin.H{"achievements": statuses, "summary": summary})
}

type checkReq struct {
	SessionID string `json:"session_id"`
}

// CheckAchievements unlocks newly qualifying achievements. Repeating it is a no-op.
func (h *Handler) CheckAchievements(c *gin.Context) {
	var req checkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidParam, "session_id required")
		return
	}
	res, err := h.achievements.Check(c.Request.Context(), req.SessionID)
	if err != nil {
		h.internal(c, "check achievements", err)
		return
	}
	common.OK(c, res)
}
