package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/swipechat-server/internal/relay"
)

// Relay is the AI relay used by the HTTP handlers.
type Relay interface {
	Review(ctx context.Context, convo []byte) string
	Suggest(ctx context.Context, s relay.Snippet) []string
	Reply(ctx context.Context, text string) string
}

// Dispatcher relays a message to a user's live connection, if any.
type Dispatcher interface {
	Dispatch(from, to, text string)
	Online(userID string) bool
}

// RelayHandlers provides HTTP handlers for the AI relay endpoints.
type RelayHandlers struct {
	relay Relay
	hub   Dispatcher
	log   *zerolog.Logger
}

// NewRelayHandlers creates a new relay handlers instance.
func NewRelayHandlers(rel Relay, hub Dispatcher, logger *zerolog.Logger) *RelayHandlers {
	return &RelayHandlers{
		relay: rel,
		hub:   hub,
		log:   logger,
	}
}

// ReplyRequest represents the simulated match reply request body.
// When From and To are set the reply is also pushed to To's live connection.
type ReplyRequest struct {
	Text string `json:"text" binding:"required"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ReplyResponse represents the simulated match reply.
// Online is set when the reply was pushed and To had a live connection.
type ReplyResponse struct {
	Reply  string `json:"reply"`
	Online bool   `json:"online"`
}

// GetReview returns a plain text review of the posted conversation.
// POST /getreview
func (h *RelayHandlers) GetReview(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.log.Debug().Err(err).Msg("read review body")
		c.JSON(statusForBodyError(err), ErrorResponse{Error: "invalid request body"})
		return
	}

	// Compact valid JSON to save tokens; anything else is forwarded as is.
	var compact bytes.Buffer
	if json.Compact(&compact, body) == nil {
		body = compact.Bytes()
	}

	review := h.relay.Review(c.Request.Context(), body)
	c.String(http.StatusOK, review)
}

// MsgPrompt returns reply suggestions for the last two messages.
// POST /msgprompt
func (h *RelayHandlers) MsgPrompt(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.log.Debug().Err(err).Msg("read msgprompt body")
		c.JSON(statusForBodyError(err), ErrorResponse{Error: "invalid request body"})
		return
	}

	snippet, err := relay.ParseSnippet(body)
	if err != nil {
		h.log.Debug().Err(err).Msg("invalid msgprompt request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.relay.Suggest(c.Request.Context(), snippet))
}

// Reply answers the text as the match would.
// POST /reply
func (h *RelayHandlers) Reply(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid reply request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	resp := ReplyResponse{Reply: h.relay.Reply(c.Request.Context(), req.Text)}
	if req.From != "" && req.To != "" && h.hub != nil {
		resp.Online = h.hub.Online(req.To)
		h.hub.Dispatch(req.From, req.To, resp.Reply)
	}
	c.JSON(http.StatusOK, resp)
}

func statusForBodyError(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
