package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chatwire/chatwire/internal/models"
	"github.com/chatwire/chatwire/internal/store"
)

var (
	ErrSelfRequest    = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends = errors.New("users are already friends")
	ErrRequestPending = errors.New("friend request already pending")
	ErrNoRequest      = errors.New("no pending friend request")
	ErrNotFriends     = errors.New("users are not friends")
	ErrEmptyMessage   = errors.New("message text is empty")
)

// FriendService manages the friend request lifecycle and private messages.
// Every mutation touching two users goes through a single pair update so both
// documents change together or not at all; events are published only after
// the write succeeds.
type FriendService struct {
	store     store.Store
	publisher Publisher
}

func NewFriendService(st store.Store, pub Publisher) *FriendService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &FriendService{store: st, publisher: pub}
}

// SendRequest records a pending request on both sides and notifies the
// recipient.
func (s *FriendService) SendRequest(ctx context.Context, fromEmail, toEmail string) error {
	if fromEmail == toEmail {
		return ErrSelfRequest
	}

	var fromName string
	err := s.store.UpdateUserPair(ctx, fromEmail, toEmail, func(from, to *models.User) error {
		switch {
		case from.HasFriend(toEmail):
			return ErrAlreadyFriends
		case from.StatusFor(toEmail) != models.FriendshipStatusNone:
			return ErrRequestPending
		}

		fromName = from.UserName
		from.SentRequests = append(from.SentRequests, toEmail)
		to.ReceivedRequests = append(to.ReceivedRequests, fromEmail)
		to.Notifications = append(to.Notifications, models.Notification{
			ID:        uuid.New().String(),
			Type:      models.NotificationTypeFriendRequest,
			Title:     "New friend request",
			Message:   fmt.Sprintf("%s sent you a friend request", from.UserName),
			From:      fromEmail,
			To:        toEmail,
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	s.publisher.Publish(UserRoom(toEmail), "friendRequest", map[string]any{
		"from":     fromEmail,
		"fromName": fromName,
	})
	return nil
}

// CancelRequest withdraws a request the caller sent earlier. Cancelling when
// no request is pending is a no-op.
func (s *FriendService) CancelRequest(ctx context.Context, fromEmail, toEmail string) error {
	var removed bool
	err := s.store.UpdateUserPair(ctx, fromEmail, toEmail, func(from, to *models.User) error {
		removed = contains(from.SentRequests, toEmail)
		from.SentRequests = models.Remove(from.SentRequests, toEmail)
		to.ReceivedRequests = models.Remove(to.ReceivedRequests, fromEmail)
		return nil
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if removed {
		s.publisher.Publish(UserRoom(toEmail), "friendRequestCancelled", map[string]any{
			"from": fromEmail,
		})
	}
	return nil
}

// AcceptRequest turns a received request into a friendship. The accepter's
// edge is marked accepted, the requester's received; both start with an empty
// conversation log.
func (s *FriendService) AcceptRequest(ctx context.Context, ownerEmail, requesterEmail string) error {
	var ownerName string
	err := s.store.UpdateUserPair(ctx, ownerEmail, requesterEmail, func(owner, requester *models.User) error {
		if !contains(owner.ReceivedRequests, requesterEmail) {
			return ErrNoRequest
		}

		ownerName = owner.UserName
		owner.ReceivedRequests = models.Remove(owner.ReceivedRequests, requesterEmail)
		requester.SentRequests = models.Remove(requester.SentRequests, ownerEmail)

		owner.Friends = append(owner.Friends, models.FriendEdge{
			FriendEmail:     requesterEmail,
			RequesterStatus: models.EdgeStatusAccepted,
			Messages:        []models.Message{},
			Online:          requester.Online,
		})
		requester.Friends = append(requester.Friends, models.FriendEdge{
			FriendEmail:     ownerEmail,
			RequesterStatus: models.EdgeStatusReceived,
			Messages:        []models.Message{},
			Online:          owner.Online,
		})
		requester.Notifications = append(requester.Notifications, models.Notification{
			ID:        uuid.New().String(),
			Type:      models.NotificationTypeFriendAcceptedBy,
			Title:     "Friend request accepted",
			Message:   fmt.Sprintf("%s accepted your friend request", owner.UserName),
			From:      ownerEmail,
			To:        requesterEmail,
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	s.publisher.Publish(UserRoom(requesterEmail), "friendRequestAccepted", map[string]any{
		"by":     ownerEmail,
		"byName": ownerName,
	})
	return nil
}

// RejectRequest declines a received request.
func (s *FriendService) RejectRequest(ctx context.Context, ownerEmail, requesterEmail string) error {
	err := s.store.UpdateUserPair(ctx, ownerEmail, requesterEmail, func(owner, requester *models.User) error {
		if !contains(owner.ReceivedRequests, requesterEmail) {
			return ErrNoRequest
		}

		owner.ReceivedRequests = models.Remove(owner.ReceivedRequests, requesterEmail)
		requester.SentRequests = models.Remove(requester.SentRequests, ownerEmail)
		requester.Notifications = append(requester.Notifications, models.Notification{
			ID:        uuid.New().String(),
			Type:      models.NotificationTypeFriendRejectedBy,
			Title:     "Friend request declined",
			Message:   fmt.Sprintf("%s declined your friend request", owner.UserName),
			From:      ownerEmail,
			To:        requesterEmail,
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	s.publisher.Publish(UserRoom(requesterEmail), "friendRequestRejected", map[string]any{
		"by": ownerEmail,
	})
	return nil
}

// ListFriends returns the caller's friends with resolved display names and
// live presence flags, without message logs.
func (s *FriendService) ListFriends(ctx context.Context, email string) ([]models.FriendInfo, error) {
	user, err := s.store.GetUser(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	friends := make([]models.FriendInfo, 0, len(user.Friends))
	for _, edge := range user.Friends {
		info := models.FriendInfo{
			FriendEmail:     edge.FriendEmail,
			RequesterStatus: edge.RequesterStatus,
			Online:          edge.Online,
		}
		if friend, err := s.store.GetUser(ctx, edge.FriendEmail); err == nil {
			info.FriendName = friend.UserName
			info.Online = friend.Online
		}
		friends = append(friends, info)
	}
	return friends, nil
}

// Requests returns the caller's pending outgoing and incoming requests.
func (s *FriendService) Requests(ctx context.Context, email string) (*models.PendingRequests, error) {
	user, err := s.store.GetUser(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	pending := &models.PendingRequests{
		Sent:     append([]string{}, user.SentRequests...),
		Received: append([]string{}, user.ReceivedRequests...),
	}
	return pending, nil
}

// SendMessage appends the message to both participants' conversation logs
// with the identical timestamp: the sender's copy is marked sent, the
// recipient's received.
func (s *FriendService) SendMessage(ctx context.Context, fromEmail, toEmail, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	now := time.Now().UTC()
	err := s.store.UpdateUserPair(ctx, fromEmail, toEmail, func(from, to *models.User) error {
		fromEdge := from.EdgeTo(toEmail)
		toEdge := to.EdgeTo(fromEmail)
		if fromEdge == nil || toEdge == nil {
			return ErrNotFriends
		}

		fromEdge.Messages = append(fromEdge.Messages, models.Message{
			Text:      text,
			Sender:    fromEmail,
			Status:    models.MessageStatusSent,
			Timestamp: now,
		})
		toEdge.Messages = append(toEdge.Messages, models.Message{
			Text:      text,
			Sender:    fromEmail,
			Status:    models.MessageStatusReceived,
			Timestamp: now,
		})
		return nil
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		Text:      text,
		Sender:    fromEmail,
		Status:    models.MessageStatusSent,
		Timestamp: now,
	}
	s.publisher.Publish(PairRoom(fromEmail, toEmail), "privateMessage", map[string]any{
		"sender":    fromEmail,
		"text":      text,
		"timestamp": now,
	})
	return msg, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// Conversation returns the caller's copy of the log with the named friend.
func (s *FriendService) Conversation(ctx context.Context, ownerEmail, friendEmail string) ([]models.Message, error) {
	user, err := s.store.GetUser(ctx, ownerEmail)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	edge := user.EdgeTo(friendEmail)
	if edge == nil {
		return nil, ErrNotFriends
	}
	if edge.Messages == nil {
		return []models.Message{}, nil
	}
	return edge.Messages, nil
}
