package services

// Publisher delivers realtime events to a named room. Delivery is best
// effort: services publish only after their store writes succeed and never
// treat a failed delivery as an operation failure.
type Publisher interface {
	Publish(room string, event string, payload any)
}

// NopPublisher discards all events. Used when no realtime hub is wired and in
// tests that do not care about events.
type NopPublisher struct{}

func (NopPublisher) Publish(room, event string, payload any) {}

// PairRoom returns the canonical room name for a private conversation: both
// emails sorted lexicographically and joined with "-", so either participant
// derives the same name.
func PairRoom(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}

// UserRoom returns the personal room a user's connections join to receive
// targeted events such as friend request updates.
func UserRoom(email string) string {
	return "user:" + email
}

// GroupRoom returns the room name for a group conversation.
func GroupRoom(name string) string {
	return "group:" + name
}
