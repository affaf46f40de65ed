package models

import (
	"time"
)

// FriendshipStatus describes the relationship between two users from one
// user's point of view.
type FriendshipStatus string

const (
	FriendshipStatusNone     FriendshipStatus = "none"
	FriendshipStatusFriend   FriendshipStatus = "friend"
	FriendshipStatusSent     FriendshipStatus = "sent"
	FriendshipStatusReceived FriendshipStatus = "received"
)

// EdgeStatus records which side of the original request the edge owner was on.
type EdgeStatus string

const (
	EdgeStatusAccepted EdgeStatus = "accepted" // owner accepted the request
	EdgeStatusReceived EdgeStatus = "received" // owner sent the request, friend accepted
)

// FriendEdge is one user's view of a friendship. The conversation log is
// stored once per participant; the two copies are kept in lockstep by the
// friend service on every send.
type FriendEdge struct {
	FriendEmail     string     `json:"friendEmail"`
	RequesterStatus EdgeStatus `json:"requesterStatus"`
	Messages        []Message  `json:"messages"`
	Online          bool       `json:"online"`
}

// User is the stored user document. Friends, request lists, group memberships
// and notifications are embedded; the store serializes the whole document.
// PasswordHash is persisted but must never appear in an API response: handlers
// return Summary values or purpose-built response types instead.
type User struct {
	UserID           string                `json:"userId"`
	UserName         string                `json:"userName"`
	UserEmail        string                `json:"userEmail"`
	PasswordHash     string                `json:"passwordHash"`
	Friends          []FriendEdge          `json:"friends"`
	SentRequests     []string              `json:"sentRequests"`
	ReceivedRequests []string              `json:"receivedRequests"`
	Groups           []UserGroupMembership `json:"groups"`
	Notifications    []Notification        `json:"notifications"`
	Online           bool                  `json:"online"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// FriendInfo is one entry of the friend listing: the edge plus the friend's
// resolved display name, without the message log.
type FriendInfo struct {
	FriendEmail     string     `json:"friendEmail"`
	FriendName      string     `json:"friendName"`
	RequesterStatus EdgeStatus `json:"requesterStatus"`
	Online          bool       `json:"online"`
}

// PendingRequests pairs the outgoing and incoming request lists.
type PendingRequests struct {
	Sent     []string `json:"sent"`
	Received []string `json:"received"`
}

// Summary is the public projection of a user.
type Summary struct {
	UserID           string           `json:"userId"`
	UserName         string           `json:"userName"`
	UserEmail        string           `json:"userEmail"`
	Online           bool             `json:"online"`
	FriendshipStatus FriendshipStatus `json:"friendshipStatus,omitempty"`
}

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
}

// Summary returns the public view of the user without any relationship
// annotation.
func (u *User) Summary() Summary {
	return Summary{
		UserID:    u.UserID,
		UserName:  u.UserName,
		UserEmail: u.UserEmail,
		Online:    u.Online,
	}
}

// EdgeTo returns the friend edge pointing at the given email, or nil.
func (u *User) EdgeTo(email string) *FriendEdge {
	for i := range u.Friends {
		if u.Friends[i].FriendEmail == email {
			return &u.Friends[i]
		}
	}
	return nil
}

// HasFriend reports whether an edge to the given email exists.
func (u *User) HasFriend(email string) bool {
	return u.EdgeTo(email) != nil
}

// MembershipOf returns the derived membership entry for the named group, or nil.
func (u *User) MembershipOf(groupName string) *UserGroupMembership {
	for i := range u.Groups {
		if u.Groups[i].GroupName == groupName {
			return &u.Groups[i]
		}
	}
	return nil
}

// StatusFor reports the friendship status of the viewer relative to other.
func (u *User) StatusFor(otherEmail string) FriendshipStatus {
	switch {
	case u.HasFriend(otherEmail):
		return FriendshipStatusFriend
	case contains(u.SentRequests, otherEmail):
		return FriendshipStatusSent
	case contains(u.ReceivedRequests, otherEmail):
		return FriendshipStatusReceived
	default:
		return FriendshipStatusNone
	}
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// Remove deletes value from list, preserving order. No-op if absent.
func Remove(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
