package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/chat"
	"github.com/suPer8Hu/journal-terminal/internal/common"
)

const heartbeatEvery = 15 * time.Second

type streamReq struct {
	SessionID string       `json:"session_id"`
	Messages  []ai.Message `json:"messages"`
}

type streamChunk struct {
	Choices []streamChoice `json:"choices"`
}

type streamChoice struct {
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

func chunkOf(s string) streamChunk {
	var ch streamChoice
	ch.Delta.Content = s
	return streamChunk{Choices: []streamChoice{ch}}
}

func validRole(r string) bool {
	return r == ai.RoleUser || r == ai.RoleAssistant || r == ai.RoleSystem
}

// ChatStream answers with `data: {"choices":[{"delta":{"content":...}}]}` lines and a final
// `data: [DONE]`. Headers are only committed once the provider produced its first chunk, so
// rate limits and exhausted credits still map to 429 and 402.
func (h *Handler) ChatStream(c *gin.Context) {
	var req streamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}
	if len(req.Messages) == 0 {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidParam, "messages required")
		return
	}
	for _, m := range req.Messages {
		if !validRole(m.Role) {
			common.Fail(c, http.StatusBadRequest, common.CodeInvalidParam, "invalid role: "+m.Role)
			return
		}
	}

	ctx := c.Request.Context()
	chunks, errs := h.chat.StreamReply(ctx, strings.TrimSpace(req.SessionID), req.Messages)

	first, ok := <-chunks
	if !ok {
		if err := <-errs; err != nil {
			h.aiErr(c, "chat stream", err)
			return
		}
	}

	flusher, canFlush := c.Writer.(http.Flusher)
	if !canFlush {
		common.Fail(c, http.StatusInternalServerError, common.CodeInternal, "streaming not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	writeData := func(payload any) {
		b, err := json.Marshal(payload)
		if err != nil {
			fmt.Fprintf(c.Writer, "data: {\"error\":\"json marshal failed\"}\n\n")
			flusher.Flush()
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	finish := func() {
		fmt.Fprint(c.Writer, "data: [DONE]\n\n")
		flusher.Flush()
	}

	if !ok {
		finish()
		return
	}
	writeData(chunkOf(first))

	ticker := time.NewTicker(heartbeatEvery)
	defer ticker.Stop()

	for {
		select {
		case s, more := <-chunks:
			if !more {
				if err := <-errs; err != nil {
					h.log.Warn("chat stream aborted", zap.Error(err))
					writeData(gin.H{"error": streamErrMessage(err)})
					return
				}
				finish()
				return
			}
			writeData(chunkOf(s))

		case <-ticker.C:
			// comment line, ignored by decoders
			fmt.Fprint(c.Writer, ": ping\n\n")
			flusher.Flush()

		case <-ctx.Done():
			// drain so the service goroutine can exit
			for range chunks {
			}
			return
		}
	}
}

func streamErrMessage(err error) string {
	switch {
	case ai.IsRateLimited(err):
		return "rate limit exceeded, try again later"
	case ai.IsCreditsExhausted(err):
		return "AI credits exhausted"
	}
	return "ai provider error"
}

func (h *Handler) aiErr(c *gin.Context, where string, err error) {
	switch {
	case ai.IsRateLimited(err):
		common.Fail(c, http.StatusTooManyRequests, common.CodeRateLimited, "rate limit exceeded, try again later")
	case ai.IsCreditsExhausted(err):
		common.Fail(c, http.StatusPaymentRequired, common.CodeCreditsExhausted, "AI credits exhausted")
	case chat.IsNotFound(err):
		common.Fail(c, http.StatusNotFound, common.CodeSessionGone, "session not found")
	case errors.Is(err, chat.ErrEmptyTranscript):
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidParam, "session has no messages")
	case errors.Is(err, ai.ErrUnknownImageKind):
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidParam, "type must be monitor or keyboard")
	default:
		h.log.Error(where, zap.Error(err))
		common.Fail(c, http.StatusBadGateway, common.CodeProvider, "ai provider error")
	}
}

// Summarize turns the session transcript into HTML for a new entry.
func (h *Handler) Summarize(c *gin.Context) {
	ctx := c.Request.Context()
	transcript, err := h.chat.Transcript(ctx, c.Param("id"))
	if err != nil {
		h.aiErr(c, "summary transcript", err)
		return
	}
	summary, err := h.chat.Summarize(ctx, transcript)
	if err != nil {
		h.aiErr(c, "summarize", err)
		return
	}
	common.OK(c, gin.H{"summary": summary})
}

// EnqueueSummary queues the summary for the worker, which saves it as an entry.
func (h *Handler) EnqueueSummary(c *gin.Context) {
	if h.publisher == nil {
		common.Fail(c, http.StatusServiceUnavailable, common.CodeEnqueueFailed, "job queue unavailable")
		return
	}
	j, err := h.chat.EnqueueSummary(c.Request.Context(), c.Param("id"), h.publisher)
	if err != nil {
		if chat.IsNotFound(err) {
			common.Fail(c, http.StatusNotFound, common.CodeSessionGone, "session not found")
			return
		}
		h.log.Error("enqueue summary", zap.String("session_id", c.Param("id")), zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, common.CodeEnqueueFailed, "enqueue failed")
		return
	}
	common.OK(c, gin.H{"job_id": j.ID})
}

func (h *Handler) GetSummaryJob(c *gin.Context) {
	j, err := h.chat.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		if chat.IsNotFound(err) {
			common.Fail(c, http.StatusNotFound, common.CodeJobGone, "job not found")
			return
		}
		h.internal(c, "get summary job", err)
		return
	}
	common.OK(c, gin.H{"job": j})
}
