package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

func (h *Handler) ListEntries(c *gin.Context) {
	views, err := h.entries.List(c.Request.Context(), journal.ListOptions{
		Tag:       c.Query("tag"),
		SessionID: c.Query("session_id"),
		Limit:     queryInt(c, "limit"),
	})
	if err != nil {
		h.internal(c, "list entries", err)
		return
	}
	common.OK(c, gin.H{"entries": views})
}

func (h *Handler) GetEntry(c *gin.Context) {
	v, err := h.entries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.entryErr(c, "get entry", err)
		return
	}
	common.OK(c, gin.H{"entry": v})
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var d journal.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}
	v, err := h.entries.Create(c.Request.Context(), d)
	if err != nil {
		h.entryErr(c, "create entry", err)
		return
	}
	common.OK(c, gin.H{"entry": v})
}

func (h *Handler) UpdateEntry(c *gin.Context) {
	var d journal.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}
	v, err := h.entries.Update(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		h.entryErr(c, "update entry", err)
		return
	}
	common.OK(c, gin.H{"entry": v})
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	id := c.Param("id")
	if err := h.entries.Delete(c.Request.Context(), id); err != nil {
		h.entryErr(c, "delete entry", err)
		return
	}
	common.OK(c, gin.H{"id": id})
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.entries.Tags(c.Request.Context())
	if err != nil {
		h.internal(c, "list tags", err)
		return
	}
	common.OK(c, gin.H{"tags": tags})
}

func (h *Handler) GlobalStats(c *gin.Context) {
	facts, err := h.entries.Facts(c.Request.Context(), "")
	if err != nil {
		h.internal(c, "global stats", err)
		return
	}
	common.OK(c, gin.H{"stats": stats.Compute(facts, h.now())})
}

func (h *Handler) entryErr(c *gin.Context, where string, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		common.Fail(c, http.StatusNotFound, common.CodeEntryGone, "entry not found")
	case errors.Is(err, journal.ErrEmptyContent):
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidParam, "content required")
	default:
		h.internal(c, where, err)
	}
}
