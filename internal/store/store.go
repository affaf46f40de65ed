// Package store persists user and group documents. Each entity is stored as a
// single document; mutations go through per-entity read-modify-write functions
// serialized by an in-process keyed lock.
package store

import (
	"context"
	"errors"

	"github.com/chatwire/chatwire/internal/models"
)

var (
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrGroupExists   = errors.New("group already exists")
	ErrGroupNotFound = errors.New("group not found")
)

// Store is the persistence interface shared by the file and postgres backends.
//
// UpdateUser and UpdateGroup load the current document, apply the mutator and
// write the result back under the entity's lock. A mutator returning an error
// aborts the update without writing. UpdateUserPair does the same for two user
// documents atomically with respect to other pair updates touching either user.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, email string, mutate func(*models.User) error) (*models.User, error)
	UpdateUserPair(ctx context.Context, emailA, emailB string, mutate func(a, b *models.User) error) error

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, name string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, name string, mutate func(*models.Group) error) (*models.Group, error)

	Ping(ctx context.Context) error
	Close() error
}
