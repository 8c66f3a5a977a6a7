package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	InboundTypeRegister    = "register"
	InboundTypeSendMessage = "send_message"
	InboundTypePing        = "ping"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventRegistered     = "registered"
	EventReceiveMessage = "receive_message"
	EventPong           = "pong"
)

// RegisterData binds the connection to a user id.
type RegisterData struct {
	User string `json:"user"`
}

// SendMessageData asks the server to relay a message to another user.
type SendMessageData struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventRegisteredData acknowledges a registration.
type EventRegisteredData struct {
	User string `json:"user"`
}

// EventReceiveMessageData is delivered to the recipient only.
type EventReceiveMessageData struct {
	From      string `json:"from"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
