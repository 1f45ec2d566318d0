package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/httpapi/handlers"
	"github.com/suPer8Hu/journal-terminal/internal/httpapi/middleware"
)

func NewRouter(d handlers.Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
		d.Log = log
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, common.CodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, common.CodeNoMethod, "method not allowed")
	})

	h := handlers.NewHandler(d)
	secret := d.Cfg.DeviceSecret

	r.GET("/ping", h.Ping)
	r.POST("/device", h.IssueDevice)

	// device scoped state
	dev := r.Group("/")
	dev.Use(middleware.DeviceRequired(secret))
	dev.GET("/prefs", h.GetPrefs)
	dev.PUT("/prefs", h.PutPrefs)

	// sessions and chat
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:id", h.GetSession)
	r.POST("/sessions/:id/complete", h.CompleteSession)
	r.GET("/sessions/:id/messages", h.ListMessages)
	r.GET("/sessions/:id/stats", h.SessionStats)
	r.POST("/sessions/:id/summary", h.Summarize)
	r.POST("/sessions/:id/summary/jobs", h.EnqueueSummary)
	r.GET("/summary-jobs/:id", h.GetSummaryJob)
	r.POST("/chat/stream", h.ChatStream)

	// journal
	r.GET("/entries", h.ListEntries)
	r.POST("/entries", h.CreateEntry)
	r.GET("/entries/:id", h.GetEntry)
	r.PUT("/entries/:id", h.UpdateEntry)
	r.DELETE("/entries/:id", h.DeleteEntry)
	r.GET("/tags", h.ListTags)
	r.GET("/stats", h.GlobalStats)

	// gamification and dashboards
	r.GET("/achievements", h.ListAchievements)
	r.POST("/achievements/check", h.CheckAchievements)
	r.GET("/goals/:session_id", h.GetGoal)
	r.PUT("/goals/:session_id", h.PutGoal)
	r.GET("/insights", h.GetInsights)

	r.POST("/images", middleware.DeviceOptional(secret), h.GenerateImage)
	return r
}
