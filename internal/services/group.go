package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chatwire/chatwire/internal/models"
	"github.com/chatwire/chatwire/internal/store"
)

var (
	ErrGroupNameRequired = errors.New("group name is required")
	ErrGroupExists       = errors.New("group already exists")
	ErrGroupNotFound     = errors.New("group not found")
	ErrAlreadyMember     = errors.New("user is already a member")
	ErrJoinPending       = errors.New("join request already pending")
	ErrNotMember         = errors.New("user is not a member")
	ErrNotAdmin          = errors.New("user is not a group admin")
	ErrNoJoinRequest     = errors.New("no pending join request")
)

// GroupService manages groups, the join request lifecycle and group messages.
// The Group document is authoritative for membership; each member's user
// document carries a derived membership entry with that member's copy of the
// message log.
type GroupService struct {
	store     store.Store
	publisher Publisher
}

func NewGroupService(st store.Store, pub Publisher) *GroupService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &GroupService{store: st, publisher: pub}
}

// Create makes a new group with the creator as its first admin and member.
func (s *GroupService) Create(ctx context.Context, params models.CreateGroupParams) (*models.Group, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	group := &models.Group{
		GroupName:        name,
		GroupDescription: params.Description,
		NeedRequest:      params.NeedRequest,
		Creator:          params.Creator,
		Admins:           []string{params.Creator},
		Members:          []string{params.Creator},
		Requests:         []string{},
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, store.ErrGroupExists) {
			return nil, ErrGroupExists
		}
		return nil, fmt.Errorf("creating group: %w", err)
	}

	_, err := s.store.UpdateUser(ctx, params.Creator, func(u *models.User) error {
		u.Groups = append(u.Groups, models.UserGroupMembership{
			GroupName: name,
			Status:    models.MembershipStatusMember,
			Roles:     []string{"admin"},
			Messages:  []models.Message{},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recording creator membership: %w", err)
	}
	return group, nil
}

func (s *GroupService) List(ctx context.Context) ([]models.GroupSummary, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	summaries := make([]models.GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, g.Summary())
	}
	return summaries, nil
}

func (s *GroupService) Get(ctx context.Context, name string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, name)
	if errors.Is(err, store.ErrGroupNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting group: %w", err)
	}
	return group, nil
}

// RequestJoin joins an open group immediately; for a closed group it records
// a pending request that an admin must resolve. A previously rejected user
// may request again.
func (s *GroupService) RequestJoin(ctx context.Context, name, email string) (models.MembershipStatus, error) {
	var (
		status models.MembershipStatus
		admins []string
	)
	group, err := s.store.UpdateGroup(ctx, name, func(g *models.Group) error {
		if g.IsMember(email) {
			return ErrAlreadyMember
		}
		if g.HasRequest(email) {
			return ErrJoinPending
		}

		if g.NeedRequest {
			status = models.MembershipStatusPending
			g.Requests = append(g.Requests, email)
		} else {
			status = models.MembershipStatusMember
			g.Members = append(g.Members, email)
		}
		admins = g.Admins
		return nil
	})
	if errors.Is(err, store.ErrGroupNotFound) {
		return "", ErrGroupNotFound
	}
	if err != nil {
		return "", err
	}

	_, err = s.store.UpdateUser(ctx, email, func(u *models.User) error {
		if m := u.MembershipOf(name); m != nil {
			m.Status = status
			return nil
		}
		u.Groups = append(u.Groups, models.UserGroupMembership{
			GroupName: name,
			Status:    status,
			Roles:     []string{},
			Messages:  []models.Message{},
		})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("recording membership: %w", err)
	}

	if status == models.MembershipStatusPending {
		for _, admin := range admins {
			s.publisher.Publish(UserRoom(admin), "groupRequest", map[string]any{
				"groupName": group.GroupName,
				"userEmail": email,
			})
		}
	}
	return status, nil
}

// ListRequests returns pending join requests. Only admins may see them.
func (s *GroupService) ListRequests(ctx context.Context, name, adminEmail string) ([]models.JoinRequest, error) {
	group, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(adminEmail) {
		return nil, ErrNotAdmin
	}

	requests := make([]models.JoinRequest, 0, len(group.Requests))
	for _, email := range group.Requests {
		requests = append(requests, models.JoinRequest{GroupName: name, UserEmail: email})
	}
	return requests, nil
}

// RequestsForAdmin returns pending join requests across every group the
// caller administers.
func (s *GroupService) RequestsForAdmin(ctx context.Context, adminEmail string) ([]models.JoinRequest, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	requests := []models.JoinRequest{}
	for _, g := range groups {
		if !g.IsAdmin(adminEmail) {
			continue
		}
		for _, email := range g.Requests {
			requests = append(requests, models.JoinRequest{GroupName: g.GroupName, UserEmail: email})
		}
	}
	return requests, nil
}

// Resolve accepts or rejects a pending join request on behalf of an admin.
// The requester's derived entry is written before the group document: if the
// group write fails the request stays pending, so the caller can retry
// instead of being stuck with a consumed request and a stale cache.
func (s *GroupService) Resolve(ctx context.Context, name, adminEmail, requesterEmail string, accept bool) error {
	group, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if !group.IsAdmin(adminEmail) {
		return ErrNotAdmin
	}
	if !group.HasRequest(requesterEmail) {
		return ErrNoJoinRequest
	}

	status := models.MembershipStatusRejected
	event := "groupRequestRejected"
	if accept {
		status = models.MembershipStatusMember
		event = "groupRequestAccepted"
	}

	_, err = s.store.UpdateUser(ctx, requesterEmail, func(u *models.User) error {
		if m := u.MembershipOf(name); m != nil {
			m.Status = status
			return nil
		}
		u.Groups = append(u.Groups, models.UserGroupMembership{
			GroupName: name,
			Status:    status,
			Roles:     []string{},
			Messages:  []models.Message{},
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording membership: %w", err)
	}

	_, err = s.store.UpdateGroup(ctx, name, func(g *models.Group) error {
		if !g.IsAdmin(adminEmail) {
			return ErrNotAdmin
		}
		if !g.HasRequest(requesterEmail) {
			if accept && g.IsMember(requesterEmail) {
				// Resolved concurrently with the same outcome.
				return nil
			}
			return ErrNoJoinRequest
		}

		g.Requests = models.Remove(g.Requests, requesterEmail)
		if accept {
			g.Members = append(g.Members, requesterEmail)
		}
		return nil
	})
	if errors.Is(err, store.ErrGroupNotFound) {
		return ErrGroupNotFound
	}
	if err != nil {
		return err
	}

	s.publisher.Publish(UserRoom(requesterEmail), event, map[string]any{
		"groupName": name,
		"by":        adminEmail,
	})
	return nil
}

// PostMessage appends the message to every member's copy of the group log
// with the identical timestamp. The sender's copy is marked sent, everyone
// else's received.
func (s *GroupService) PostMessage(ctx context.Context, name, senderEmail, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	group, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(senderEmail) {
		return nil, ErrNotMember
	}

	now := time.Now().UTC()
	for _, member := range group.Members {
		status := models.MessageStatusReceived
		if member == senderEmail {
			status = models.MessageStatusSent
		}
		msg := models.Message{
			Text:      text,
			Sender:    senderEmail,
			Status:    status,
			Timestamp: now,
		}
		_, err := s.store.UpdateUser(ctx, member, func(u *models.User) error {
			m := u.MembershipOf(name)
			if m == nil || m.Status != models.MembershipStatusMember {
				return nil
			}
			m.Messages = append(m.Messages, msg)
			return nil
		})
		if err != nil && !errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("appending message for %s: %w", member, err)
		}
	}

	out := &models.Message{
		Text:      text,
		Sender:    senderEmail,
		Status:    models.MessageStatusSent,
		Timestamp: now,
	}
	s.publisher.Publish(GroupRoom(name), "message", map[string]any{
		"groupName": name,
		"sender":    senderEmail,
		"text":      text,
		"timestamp": now,
	})
	return out, nil
}

// History returns the member's copy of the group log.
func (s *GroupService) History(ctx context.Context, name, memberEmail string) ([]models.Message, error) {
	user, err := s.store.GetUser(ctx, memberEmail)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	m := user.MembershipOf(name)
	if m == nil || m.Status != models.MembershipStatusMember {
		return nil, ErrNotMember
	}
	if m.Messages == nil {
		return []models.Message{}, nil
	}
	return m.Messages, nil
}
