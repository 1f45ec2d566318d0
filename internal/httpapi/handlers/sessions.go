package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/journal-terminal/internal/chat"
	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

func (h *Handler) CreateSession(c *gin.Context) {
	s, err := h.chat.CreateSession(c.Request.Context())
	if err != nil {
		h.internal(c, "create session", err)
		return
	}
	common.OK(c, gin.H{"session": s})
}

func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.chat.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionErr(c, "get session", err)
		return
	}
	common.OK(c, gin.H{"session": s})
}

func (h *Handler) CompleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.chat.Complete(c.Request.Context(), id); err != nil {
		h.sessionErr(c, "complete session", err)
		return
	}
	common.OK(c, gin.H{"id": id, "completed": true})
}

func (h *Handler) ListMessages(c *gin.Context) {
	var beforeID uint64
	if s := c.Query("before_id"); s != "" {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			beforeID = n
		}
	}
	msgs, err := h.chat.ListMessages(c.Request.Context(), c.Param("id"), queryInt(c, "limit"), beforeID)
	if err != nil {
		h.sessionErr(c, "list messages", err)
		return
	}

	var nextBeforeID uint64
	if len(msgs) > 0 {
		nextBeforeID = msgs[0].ID
	}
	common.OK(c, gin.H{
		"messages":       msgs,
		"next_before_id": nextBeforeID,
	})
}

// SessionStats computes the same summary as /stats over the session's entries only.
func (h *Handler) SessionStats(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.chat.GetSession(ctx, id); err != nil {
		h.sessionErr(c, "session stats", err)
		return
	}
	facts, err := h.entries.Facts(ctx, id)
	if err != nil {
		h.internal(c, "session stats", err)
		return
	}
	common.OK(c, gin.H{"stats": stats.Compute(facts, h.now())})
}

func (h *Handler) sessionErr(c *gin.Context, where string, err error) {
	if chat.IsNotFound(err) {
		common.Fail(c, http.StatusNotFound, common.CodeSessionGone, "session not found")
		return
	}
	h.internal(c, where, err)
}
