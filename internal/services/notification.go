package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/chatwire/chatwire/internal/models"
	"github.com/chatwire/chatwire/internal/store"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService serves the merged notification view: notifications
// stored on the user document plus entries synthesized from pending friend
// requests. Synthesized entries carry deterministic IDs and cannot be
// deleted; they disappear when the underlying request resolves.
type NotificationService struct {
	store store.Store
}

func NewNotificationService(st store.Store) *NotificationService {
	return &NotificationService{store: st}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, email string) ([]models.Notification, error) {
	user, err := s.store.GetUser(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	notifications := make([]models.Notification, 0, len(user.Notifications)+len(user.SentRequests))
	notifications = append(notifications, user.Notifications...)

	for _, to := range user.SentRequests {
		// The request time lives on the recipient's stored notification; fall
		// back to the account age when that copy is gone.
		ts := user.CreatedAt
		if recipient, err := s.store.GetUser(ctx, to); err == nil {
			for _, n := range recipient.Notifications {
				if n.Type == models.NotificationTypeFriendRequest && n.From == email {
					ts = n.Timestamp
					break
				}
			}
		}
		notifications = append(notifications, models.Notification{
			ID:        "pending:sent:" + to,
			Type:      models.NotificationTypeFriendRequestSent,
			Title:     "Friend request pending",
			Message:   fmt.Sprintf("Your friend request to %s is pending", to),
			From:      email,
			To:        to,
			Timestamp: ts,
		})
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].Timestamp.After(notifications[j].Timestamp)
	})
	return notifications, nil
}

// MarkRead flags a stored notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, email, id string) error {
	_, err := s.store.UpdateUser(ctx, email, func(u *models.User) error {
		for i := range u.Notifications {
			if u.Notifications[i].ID == id {
				u.Notifications[i].Read = true
				return nil
			}
		}
		return ErrNotificationNotFound
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Delete removes a stored notification. Synthesized request entries are not
// stored and cannot be deleted.
func (s *NotificationService) Delete(ctx context.Context, email, id string) error {
	_, err := s.store.UpdateUser(ctx, email, func(u *models.User) error {
		for i := range u.Notifications {
			if u.Notifications[i].ID == id {
				u.Notifications = append(u.Notifications[:i], u.Notifications[i+1:]...)
				return nil
			}
		}
		return ErrNotificationNotFound
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}
