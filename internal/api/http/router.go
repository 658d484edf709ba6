// Package http exposes Pawn School sessions over a JSON API built on gin.
package http

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/pawn-school/internal/narrative"
)

// RouterConfig holds the dependencies of the API.
type RouterConfig struct {
	Sessions     *SessionManager
	Teller       *narrative.Teller
	StoryTimeout time.Duration
	Logger       *log.Logger
}

// NewRouter wires every route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sm := cfg.Sessions
	if sm == nil {
		sm = NewSessionManager(nil, nil, logger)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": len(sm.IDs())})
	})

	// --- LEVEL ENDPOINTS ---
	r.GET("/levels", ListLevelsHandler(sm))

	// --- SESSION ENDPOINTS ---
	r.POST("/sessions", CreateSessionHandler(sm))
	sessions := r.Group("/sessions/:id")
	{
		sessions.GET("", GetSessionHandler(sm))
		sessions.DELETE("", DeleteSessionHandler(sm))
		sessions.POST("/level", SetLevelHandler(sm))
		sessions.POST("/reset", ResetLevelHandler(sm))
		sessions.POST("/select", SelectHandler(sm))
		sessions.POST("/deselect", DeselectHandler(sm))
		sessions.POST("/move", MoveHandler(sm))
		sessions.POST("/skip", SkipLevelHandler(sm))
		sessions.POST("/unlock-next", UnlockNextHandler(sm))
		sessions.POST("/wins/reset", ResetWinsHandler(sm))
		sessions.GET("/story", StoryHandler(sm, cfg.Teller, cfg.StoryTimeout))
	}

	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
