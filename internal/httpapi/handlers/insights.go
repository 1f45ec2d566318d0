package handlers

import (
	"math/rand/v2"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/insights"
)

// GetInsights serves the mock dashboard. ?seed= makes it repeatable.
func (h *Handler) GetInsights(c *gin.Context) {
	now := h.now()
	seed := uint64(now.UnixNano())
	if s := c.Query("seed"); s != "" {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = n
		}
	}
	d := insights.Generate(rand.New(rand.NewPCG(seed, seed>>1|1)), now)
	common.OK(c, gin.H{"insights": d})
}
