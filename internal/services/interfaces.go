package services

import (
	"context"

	"github.com/chatwire/chatwire/internal/models"
)

// UserServiceInterface defines the contract for user operations.
type UserServiceInterface interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, viewerEmail string) ([]models.Summary, error)
	SetOnline(ctx context.Context, email string, online bool) error
}

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	Signup(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) bool
	GenerateSessionToken() (token string, hash string, err error)
	CreateSession(ctx context.Context, email string) (string, error)
	ValidateSession(ctx context.Context, token string) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error
}

// FriendServiceInterface defines the contract for the friend request
// lifecycle and private messaging.
type FriendServiceInterface interface {
	SendRequest(ctx context.Context, fromEmail, toEmail string) error
	CancelRequest(ctx context.Context, fromEmail, toEmail string) error
	AcceptRequest(ctx context.Context, ownerEmail, requesterEmail string) error
	RejectRequest(ctx context.Context, ownerEmail, requesterEmail string) error
	ListFriends(ctx context.Context, email string) ([]models.FriendInfo, error)
	Requests(ctx context.Context, email string) (*models.PendingRequests, error)
	SendMessage(ctx context.Context, fromEmail, toEmail, text string) (*models.Message, error)
	Conversation(ctx context.Context, ownerEmail, friendEmail string) ([]models.Message, error)
}

// GroupServiceInterface defines the contract for group operations.
type GroupServiceInterface interface {
	Create(ctx context.Context, params models.CreateGroupParams) (*models.Group, error)
	List(ctx context.Context) ([]models.GroupSummary, error)
	Get(ctx context.Context, name string) (*models.Group, error)
	RequestJoin(ctx context.Context, name, email string) (models.MembershipStatus, error)
	ListRequests(ctx context.Context, name, adminEmail string) ([]models.JoinRequest, error)
	RequestsForAdmin(ctx context.Context, adminEmail string) ([]models.JoinRequest, error)
	Resolve(ctx context.Context, name, adminEmail, requesterEmail string, accept bool) error
	PostMessage(ctx context.Context, name, senderEmail, text string) (*models.Message, error)
	History(ctx context.Context, name, memberEmail string) ([]models.Message, error)
}

// NotificationServiceInterface defines the contract for the merged
// notification view.
type NotificationServiceInterface interface {
	List(ctx context.Context, email string) ([]models.Notification, error)
	MarkRead(ctx context.Context, email, id string) error
	Delete(ctx context.Context, email, id string) error
}
