package ws

// Envelope is the wire format for every outbound event.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// inboundEvent is the wire format for client events. Fields are used
// per-event: join/leaveRoom use Room, sendMessage uses Room and Text,
// sendPrivateMessage uses To and Text, typing uses To and Typing.
type inboundEvent struct {
	Event  string `json:"event"`
	Room   string `json:"room,omitempty"`
	To     string `json:"to,omitempty"`
	Text   string `json:"text,omitempty"`
	Typing bool   `json:"typing,omitempty"`
}
