package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/prefs"
)

func (h *Handler) GetPrefs(c *gin.Context) {
	if h.prefs == nil {
		common.Fail(c, http.StatusServiceUnavailable, common.CodeInternal, "prefs store unavailable")
		return
	}
	p, err := h.prefs.Load(c.Request.Context(), deviceID(c))
	if err != nil {
		h.internal(c, "load prefs", err)
		return
	}
	common.OK(c, gin.H{"prefs": p})
}

func (h *Handler) PutPrefs(c *gin.Context) {
	if h.prefs == nil {
		common.Fail(c, http.StatusServiceUnavailable, common.CodeInternal, "prefs store unavailable")
		return
	}
	var p prefs.Prefs
	if err := c.ShouldBindJSON(&p); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}
	if err := h.prefs.Save(c.Request.Context(), deviceID(c), p); err != nil {
		h.internal(c, "save prefs", err)
		return
	}
	common.OK(c, gin.H{"prefs": p})
}
