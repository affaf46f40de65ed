package models

import "time"

// MessageStatus marks which copy of a denormalized message this is: the
// sender's log holds "sent", every recipient's log holds "received".
type MessageStatus string

const (
	MessageStatusSent     MessageStatus = "sent"
	MessageStatusReceived MessageStatus = "received"
)

// Message is append-only; it is never edited or removed once written. Both
// copies of a private message carry the identical timestamp.
type Message struct {
	Text      string        `json:"text"`
	Sender    string        `json:"sender"`
	Status    MessageStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}
