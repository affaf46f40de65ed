package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatwire/chatwire/internal/models"
	"github.com/chatwire/chatwire/internal/store"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

// List returns every user except the viewer, each annotated with the viewer's
// friendship status toward them.
func (s *UserService) List(ctx context.Context, viewerEmail string) ([]models.Summary, error) {
	viewer, err := s.store.GetUser(ctx, viewerEmail)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting viewer: %w", err)
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	summaries := make([]models.Summary, 0, len(users))
	for _, u := range users {
		if u.UserEmail == viewerEmail {
			continue
		}
		summary := u.Summary()
		summary.FriendshipStatus = viewer.StatusFor(u.UserEmail)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SetOnline flips the user's presence flag and mirrors it into the matching
// edge on every friend's document so friend lists show live presence.
func (s *UserService) SetOnline(ctx context.Context, email string, online bool) error {
	user, err := s.store.UpdateUser(ctx, email, func(u *models.User) error {
		u.Online = online
		return nil
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("updating presence: %w", err)
	}

	for _, edge := range user.Friends {
		_, err := s.store.UpdateUser(ctx, edge.FriendEmail, func(friend *models.User) error {
			if e := friend.EdgeTo(email); e != nil {
				e.Online = online
			}
			return nil
		})
		if err != nil && !errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("mirroring presence to %s: %w", edge.FriendEmail, err)
		}
	}
	return nil
}
