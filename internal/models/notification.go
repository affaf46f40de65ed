package models

import "time"

type NotificationType string

const (
	NotificationTypeFriendRequest     NotificationType = "friend_request"
	NotificationTypeFriendRequestSent NotificationType = "friend_request_sent"
	NotificationTypeFriendAcceptedBy  NotificationType = "friend_accepted_by"
	NotificationTypeFriendRejectedBy  NotificationType = "friend_rejected_by"
)

// Notification is stored on the recipient's user document and removed only by
// an explicit delete. Request-derived notifications (pending sent/received
// friend requests) are synthesized at read time and are not stored.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	From      string           `json:"from,omitempty"`
	To        string           `json:"to,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}
