package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/swipechat-server/internal/badges"
)

// BadgeHandlers provides HTTP handlers for badge evaluation.
type BadgeHandlers struct {
	log *zerolog.Logger
}

// NewBadgeHandlers creates a new badge handlers instance.
func NewBadgeHandlers(logger *zerolog.Logger) *BadgeHandlers {
	return &BadgeHandlers{log: logger}
}

// BadgesResponse lists every badge plus the ones earned since the client's last check.
type BadgesResponse struct {
	Badges []badges.Badge `json:"badges"`
	New    []badges.Badge `json:"new"`
}

// Evaluate computes badges from the posted chat counters.
// POST /badges
func (h *BadgeHandlers) Evaluate(c *gin.Context) {
	var req badges.Stats
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid badges request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	evaluated := badges.Evaluate(req)
	fresh := badges.NewlyEarned(req.Earned, evaluated)
	if fresh == nil {
		fresh = []badges.Badge{}
	}

	h.log.Debug().Str("user", req.UserID).Int("new", len(fresh)).Msg("badges evaluated")
	c.JSON(http.StatusOK, BadgesResponse{Badges: evaluated, New: fresh})
}
