package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/goal"
)

func (h *Handler) GetGoal(c *gin.Context) {
	t, err := h.goals.Today(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.goalErr(c, err)
		return
	}
	common.OK(c, gin.H{"goal": t.Progress()})
}

type setGoalReq struct {
	TargetWords int `json:"target_words"`
}

func (h *Handler) PutGoal(c *gin.Context) {
	var req setGoalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}
	ctx := c.Request.Context()
	t, err := h.goals.Today(ctx, c.Param("session_id"))
	if err != nil {
		h.goalErr(c, err)
		return
	}
	p, err := t.SetTarget(ctx, req.TargetWords)
	if err != nil {
		h.goalErr(c, err)
		return
	}
	common.OK(c, gin.H{"goal": p})
}

func (h *Handler) goalErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, goal.ErrInvalidTarget):
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidParam, "target_words must be positive")
	case errors.Is(err, goal.ErrSessionRequired):
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidParam, "session_id required")
	default:
		h.internal(c, "goal", err)
	}
}
