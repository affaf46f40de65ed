package models

import "time"

// MembershipStatus is the state of a user's derived group membership entry.
type MembershipStatus string

const (
	MembershipStatusPending  MembershipStatus = "pending"
	MembershipStatusMember   MembershipStatus = "member"
	MembershipStatusRejected MembershipStatus = "rejected"
)

// Group is the authoritative membership record. Users referenced by admins,
// members and requests are identified by email.
type Group struct {
	GroupName        string    `json:"groupName"`
	GroupDescription string    `json:"groupDescription"`
	NeedRequest      bool      `json:"needRequest"`
	Creator          string    `json:"creator"`
	Admins           []string  `json:"admins"`
	Members          []string  `json:"members"`
	Requests         []string  `json:"requests"`
	CreatedAt        time.Time `json:"createdAt"`
}

// UserGroupMembership is the per-user derived cache of a group membership,
// including the member's copy of the group's message log. It must be kept
// consistent with the Group entity whenever membership changes.
type UserGroupMembership struct {
	GroupName string           `json:"groupName"`
	Status    MembershipStatus `json:"status"`
	Roles     []string         `json:"roles"`
	Messages  []Message        `json:"messages"`
}

// GroupSummary is the public projection of a group; join requests are only
// visible to admins through the request listing.
type GroupSummary struct {
	GroupName        string    `json:"groupName"`
	GroupDescription string    `json:"groupDescription"`
	NeedRequest      bool      `json:"needRequest"`
	Creator          string    `json:"creator"`
	Admins           []string  `json:"admins"`
	Members          []string  `json:"members"`
	CreatedAt        time.Time `json:"createdAt"`
}

type CreateGroupParams struct {
	Name        string
	Description string
	NeedRequest bool
	Creator     string
}

// JoinRequest is a pending join request as presented to a group admin.
type JoinRequest struct {
	GroupName string `json:"groupName"`
	UserEmail string `json:"userEmail"`
}

func (g *Group) Summary() GroupSummary {
	return GroupSummary{
		GroupName:        g.GroupName,
		GroupDescription: g.GroupDescription,
		NeedRequest:      g.NeedRequest,
		Creator:          g.Creator,
		Admins:           g.Admins,
		Members:          g.Members,
		CreatedAt:        g.CreatedAt,
	}
}

// IsAdmin reports whether the email belongs to a group admin.
func (g *Group) IsAdmin(email string) bool {
	return contains(g.Admins, email)
}

// IsMember reports whether the email belongs to a group member.
func (g *Group) IsMember(email string) bool {
	return contains(g.Members, email)
}

// HasRequest reports whether a join request from the email is pending.
func (g *Group) HasRequest(email string) bool {
	return contains(g.Requests, email)
}
