package core

import "time"

// Message is a chat message in transit. It is never stored.
type Message struct {
	From      string
	To        string
	Text      string
	Timestamp time.Time
}
