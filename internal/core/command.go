package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandRegister binds the connection to a user id.
	CommandRegister CommandKind = iota
	// CommandSendMessage relays a message to the recipient's live connection.
	CommandSendMessage
)

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	UserID  string
	Message Message
}
