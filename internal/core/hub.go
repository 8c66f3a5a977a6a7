package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type inbound struct {
	client *Client // nil for server-originated messages
	cmd    *Command
}

type presenceQuery struct {
	userID string
	reply  chan bool
}

// Hub is the connection manager. A single goroutine (Run) owns the registry,
// so every register, unregister and dispatch happens in one place.
type Hub struct {
	registry *Registry
	attach   chan *Client
	detach   chan *Client
	inbox    chan inbound
	presence chan presenceQuery
	stopped  chan struct{}
	now      func() time.Time
	log      *zerolog.Logger
}

// NewHub creates a hub. A nil logger disables logging.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry: NewRegistry(),
		attach:   make(chan *Client),
		detach:   make(chan *Client),
		inbox:    make(chan inbound, 64),
		presence: make(chan presenceQuery),
		stopped:  make(chan struct{}),
		now:      time.Now,
		log:      logger,
	}
}

// Run processes connection events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	clients := make(map[*Client]struct{})
	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				h.drop(c)
			}
			return
		case c := <-h.attach:
			clients[c] = struct{}{}
			go h.pump(c)
			h.log.Debug().Str("client_id", c.ID).Int("clients", len(clients)).Msg("client attached")
		case c := <-h.detach:
			if _, ok := clients[c]; !ok {
				continue
			}
			delete(clients, c)
			h.drop(c)
		case in := <-h.inbox:
			if in.client != nil {
				if _, ok := clients[in.client]; !ok {
					continue
				}
			}
			h.handle(in)
		case q := <-h.presence:
			_, ok := h.registry.Lookup(q.userID)
			q.reply <- ok
		}
	}
}

// RegisterClient attaches a freshly accepted connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.attach <- c:
	case <-h.stopped:
	}
}

// UnregisterClient handles connection loss: all registry entries bound to c
// are removed and c.Events is closed.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.detach <- c:
	case <-h.stopped:
	}
}

// Dispatch relays a server-originated message. It is fire-and-forget:
// an offline recipient simply never sees it.
func (h *Hub) Dispatch(from, to, text string) {
	cmd := &Command{
		Kind:    CommandSendMessage,
		Message: Message{From: from, To: to, Text: text},
	}
	select {
	case h.inbox <- inbound{cmd: cmd}:
	case <-h.stopped:
	}
}

// Online reports whether userID currently has a live connection.
// The answer is a snapshot; the user may disconnect right after.
func (h *Hub) Online(userID string) bool {
	q := presenceQuery{userID: userID, reply: make(chan bool, 1)}
	select {
	case h.presence <- q:
	case <-h.stopped:
		return false
	}
	return <-q.reply
}

func (h *Hub) pump(c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			if cmd == nil {
				continue
			}
			select {
			case h.inbox <- inbound{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-h.stopped:
				return
			}
		case <-c.done:
			return
		case <-h.stopped:
			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	removed := h.registry.Unregister(c)
	close(c.done)
	close(c.Events)
	h.log.Debug().Str("client_id", c.ID).Strs("users", removed).Msg("client detached")
}

func (h *Hub) handle(in inbound) {
	switch in.cmd.Kind {
	case CommandRegister:
		h.register(in.client, in.cmd.UserID)
	case CommandSendMessage:
		msg := in.cmd.Message
		if msg.From == "" && in.client != nil {
			msg.From = in.client.UserID
		}
		if msg.From == "" {
			h.reject(in.client, ErrCodeNotRegistered, "register before sending messages")
			return
		}
		if msg.To == "" {
			h.reject(in.client, ErrCodeBadRequest, "recipient is required")
			return
		}
		msg.Timestamp = h.now()
		h.dispatch(msg)
	default:
		h.reject(in.client, ErrCodeInvalidMessage, "unknown command")
	}
}

func (h *Hub) register(c *Client, userID string) {
	if c == nil {
		return
	}
	if userID == "" {
		h.reject(c, ErrCodeBadRequest, "user is required")
		return
	}
	if prev := h.registry.Register(userID, c); prev != nil && prev != c {
		h.log.Debug().Str("user", userID).Str("client_id", c.ID).Str("replaced", prev.ID).Msg("registration overwritten")
	}
	h.log.Info().Str("user", userID).Str("client_id", c.ID).Msg("user registered")
	c.deliver(&Event{Kind: EventRegistered, User: userID})
}

// dispatch delivers msg to the recipient's live handle, if any.
func (h *Hub) dispatch(msg Message) bool {
	target, ok := h.registry.Lookup(msg.To)
	if !ok {
		h.log.Debug().Str("from", msg.From).Str("to", msg.To).Msg("recipient offline, message dropped")
		return false
	}
	if !target.deliver(&Event{Kind: EventMessage, Message: msg}) {
		h.log.Warn().Str("to", msg.To).Str("client_id", target.ID).Msg("recipient buffer full, message dropped")
		return false
	}
	return true
}

func (h *Hub) reject(c *Client, code, msg string) {
	if c == nil {
		h.log.Debug().Str("code", code).Msg(msg)
		return
	}
	c.deliver(&Event{Kind: EventError, Error: coreError(code, msg)})
}
