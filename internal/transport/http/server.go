package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/swipechat-server/internal/config"
	"github.com/vovakirdan/swipechat-server/internal/core"
)

const indexBanner = "Dating app chat backend is running"

// NewServer builds an HTTP server with the chat relay and AI relay routes.
func NewServer(hub *core.Hub, rel Relay, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.CORSOrigins))

	router.GET("/", indexHandler)
	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, logger)))

	relayHandlers := NewRelayHandlers(rel, hub, logger)
	badgeHandlers := NewBadgeHandlers(logger)

	api := router.Group("/")
	api.Use(BodyLimitMiddleware(cfg.MaxMessageBytes))
	{
		api.POST("/getreview", relayHandlers.GetReview)
		api.POST("/msgprompt", relayHandlers.MsgPrompt)
		api.POST("/reply", relayHandlers.Reply)
		api.POST("/badges", badgeHandlers.Evaluate)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func indexHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, indexBanner)
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
