package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suPer8Hu/journal-terminal/internal/achievement"
	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/chat"
	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/config"
	"github.com/suPer8Hu/journal-terminal/internal/goal"
	"github.com/suPer8Hu/journal-terminal/internal/httpapi/middleware"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
	"github.com/suPer8Hu/journal-terminal/internal/prefs"
)

// ImageCache keeps generated decoration URLs per device scope.
type ImageCache interface {
	GetImage(ctx context.Context, scope, kind string) (string, error)
	SetImage(ctx context.Context, scope, kind, url string) error
}

// ImageSource returns a provider that can generate images.
type ImageSource func(ctx context.Context) (ai.ImageGenerator, error)

// Deps are the collaborators the API needs. Prefs, Images and Publisher may be nil; the
// routes depending on them then answer 503.
type Deps struct {
	DB        *gorm.DB
	Cfg       config.Config
	Log       *zap.Logger
	Registry  *ai.Registry
	Prefs     prefs.Store
	Images    ImageCache
	ImageGen  ImageSource
	Publisher chat.Publisher
}

type Handler struct {
	Cfg config.Config
	log *zap.Logger

	entries      *journal.Service
	chat         *chat.Service
	achievements *achievement.Service
	goals        *goal.Service

	prefs     prefs.Store
	images    ImageCache
	imageGen  ImageSource
	publisher chat.Publisher
	now       func() time.Time
}

func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	reg := d.Registry
	if reg == nil {
		reg = ai.NewRegistryFromConfig(d.Cfg)
	}
	model := ""
	switch d.Cfg.AIProvider {
	case "openai":
		model = d.Cfg.OpenAIModel
	case "openrouter":
		model = d.Cfg.OpenRouterModel
	}

	entries := journal.NewService(journal.NewRepo(d.DB))
	h := &Handler{
		Cfg:          d.Cfg,
		log:          log,
		entries:      entries,
		chat:         chat.NewService(chat.NewRepo(d.DB), reg, d.Cfg.AIProvider, model, d.Cfg.ChatContextWindowSize, log),
		achievements: achievement.NewService(achievement.NewRepo(d.DB), entries, log),
		goals:        goal.NewService(goal.NewRepo(d.DB), entries, d.Cfg.DefaultGoalWords),
		prefs:        d.Prefs,
		images:       d.Images,
		imageGen:     d.ImageGen,
		publisher:    d.Publisher,
		now:          time.Now,
	}
	if h.imageGen == nil {
		h.imageGen = func(ctx context.Context) (ai.ImageGenerator, error) {
			p, err := reg.Get(ctx, "openai", "")
			if err != nil {
				return nil, err
			}
			g, ok := p.(ai.ImageGenerator)
			if !ok {
				return nil, fmt.Errorf("provider cannot generate images")
			}
			return g, nil
		}
	}
	return h
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true, "ts": h.now().Unix()})
}

func (h *Handler) internal(c *gin.Context, where string, err error) {
	h.log.Error(where,
		zap.Error(err),
		zap.String("request_id", c.GetString(middleware.CtxRequestID)))
	common.Fail(c, http.StatusInternalServerError, common.CodeInternal, "internal error")
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

func deviceID(c *gin.Context) string {
	return c.GetString(middleware.CtxDeviceID)
}
