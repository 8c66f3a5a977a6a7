package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRegistered acknowledges a register command.
	EventRegistered EventKind = iota
	// EventMessage delivers a relayed chat message to its recipient.
	EventMessage
	// EventError notifies a client about a rejected command.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	User    string
	Message Message
	Error   *CoreError
}
