package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/common"
)

type imageReq struct {
	Type string `json:"type"`
}

// GenerateImage draws a monitor or keyboard decoration. With a device token the result is
// cached for that device.
func (h *Handler) GenerateImage(c *gin.Context) {
	var req imageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}
	kind := strings.ToLower(strings.TrimSpace(req.Type))
	prompt, err := ai.ImagePrompt(kind)
	if err != nil {
		h.aiErr(c, "image prompt", err)
		return
	}

	ctx := c.Request.Context()
	scope := deviceID(c)
	if scope != "" && h.images != nil {
		if url, err := h.images.GetImage(ctx, scope, kind); err != nil {
			h.log.Warn("image cache read", zap.Error(err))
		} else if url != "" {
			common.OK(c, gin.H{"imageUrl": url, "cached": true})
			return
		}
	}

	gen, err := h.imageGen(ctx)
	if err != nil {
		h.aiErr(c, "image provider", err)
		return
	}
	url, err := gen.GenerateImage(ctx, prompt)
	if err != nil {
		h.aiErr(c, "generate image", err)
		return
	}
	if scope != "" && h.images != nil {
		if err := h.images.SetImage(ctx, scope, kind, url); err != nil {
			h.log.Warn("image cache write", zap.Error(err))
		}
	}
	common.OK(c, gin.H{"imageUrl": url, "cached": false})
}
