package core

const clientBufferSize = 16

// Client is a live connection handle as seen by the core layer.
// UserID is owned by the hub loop and must not be read from other goroutines.
type Client struct {
	ID       string
	UserID   string
	Commands chan *Command
	Events   chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, clientBufferSize),
		Events:   make(chan *Event, clientBufferSize),
		done:     make(chan struct{}),
	}
}

// deliver performs a non-blocking send. Slow consumers lose the event.
func (c *Client) deliver(event *Event) bool {
	select {
	case c.Events <- event:
		return true
	default:
		return false
	}
}
