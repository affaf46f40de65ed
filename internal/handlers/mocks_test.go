package handlers

import (
	"context"

	"github.com/chatwire/chatwire/internal/models"
)

type mockAuthService struct {
	SignupFunc               func(ctx context.Context, name, email, password string) (*models.User, string, error)
	LoginFunc                func(ctx context.Context, email, password string) (*models.User, string, error)
	HashPasswordFunc         func(password string) (string, error)
	VerifyPasswordFunc       func(hash, password string) bool
	GenerateSessionTokenFunc func() (string, string, error)
	CreateSessionFunc        func(ctx context.Context, email string) (string, error)
	ValidateSessionFunc      func(ctx context.Context, token string) (*models.User, error)
	DeleteSessionFunc        func(ctx context.Context, token string) error
}

func (m *mockAuthService) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, name, email, password)
	}
	return nil, "", nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, "", nil
}

func (m *mockAuthService) HashPassword(password string) (string, error) {
	if m.HashPasswordFunc != nil {
		return m.HashPasswordFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockAuthService) VerifyPassword(hash, password string) bool {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(hash, password)
	}
	return hash == "hashed_"+password
}

func (m *mockAuthService) GenerateSessionToken() (string, string, error) {
	if m.GenerateSessionTokenFunc != nil {
		return m.GenerateSessionTokenFunc()
	}
	return "token", "hash", nil
}

func (m *mockAuthService) CreateSession(ctx context.Context, email string) (string, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, email)
	}
	return "test_session_token", nil
}

func (m *mockAuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if m.ValidateSessionFunc != nil {
		return m.ValidateSessionFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockAuthService) DeleteSession(ctx context.Context, token string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, token)
	}
	return nil
}

type mockUserService struct {
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	ListFunc       func(ctx context.Context, viewerEmail string) ([]models.Summary, error)
	SetOnlineFunc  func(ctx context.Context, email string, online bool) error
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) List(ctx context.Context, viewerEmail string) ([]models.Summary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, viewerEmail)
	}
	return nil, nil
}

func (m *mockUserService) SetOnline(ctx context.Context, email string, online bool) error {
	if m.SetOnlineFunc != nil {
		return m.SetOnlineFunc(ctx, email, online)
	}
	return nil
}

type mockFriendService struct {
	SendRequestFunc   func(ctx context.Context, fromEmail, toEmail string) error
	CancelRequestFunc func(ctx context.Context, fromEmail, toEmail string) error
	AcceptRequestFunc func(ctx context.Context, ownerEmail, requesterEmail string) error
	RejectRequestFunc func(ctx context.Context, ownerEmail, requesterEmail string) error
	ListFriendsFunc   func(ctx context.Context, email string) ([]models.FriendInfo, error)
	RequestsFunc      func(ctx context.Context, email string) (*models.PendingRequests, error)
	SendMessageFunc   func(ctx context.Context, fromEmail, toEmail, text string) (*models.Message, error)
	ConversationFunc  func(ctx context.Context, ownerEmail, friendEmail string) ([]models.Message, error)
}

func (m *mockFriendService) SendRequest(ctx context.Context, fromEmail, toEmail string) error {
	if m.SendRequestFunc != nil {
		return m.SendRequestFunc(ctx, fromEmail, toEmail)
	}
	return nil
}

func (m *mockFriendService) CancelRequest(ctx context.Context, fromEmail, toEmail string) error {
	if m.CancelRequestFunc != nil {
		return m.CancelRequestFunc(ctx, fromEmail, toEmail)
	}
	return nil
}

func (m *mockFriendService) AcceptRequest(ctx context.Context, ownerEmail, requesterEmail string) error {
	if m.AcceptRequestFunc != nil {
		return m.AcceptRequestFunc(ctx, ownerEmail, requesterEmail)
	}
	return nil
}

func (m *mockFriendService) RejectRequest(ctx context.Context, ownerEmail, requesterEmail string) error {
	if m.RejectRequestFunc != nil {
		return m.RejectRequestFunc(ctx, ownerEmail, requesterEmail)
	}
	return nil
}

func (m *mockFriendService) ListFriends(ctx context.Context, email string) ([]models.FriendInfo, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockFriendService) Requests(ctx context.Context, email string) (*models.PendingRequests, error) {
	if m.RequestsFunc != nil {
		return m.RequestsFunc(ctx, email)
	}
	return &models.PendingRequests{}, nil
}

func (m *mockFriendService) SendMessage(ctx context.Context, fromEmail, toEmail, text string) (*models.Message, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, fromEmail, toEmail, text)
	}
	return nil, nil
}

func (m *mockFriendService) Conversation(ctx context.Context, ownerEmail, friendEmail string) ([]models.Message, error) {
	if m.ConversationFunc != nil {
		return m.ConversationFunc(ctx, ownerEmail, friendEmail)
	}
	return nil, nil
}

type mockGroupService struct {
	CreateFunc           func(ctx context.Context, params models.CreateGroupParams) (*models.Group, error)
	ListFunc             func(ctx context.Context) ([]models.GroupSummary, error)
	GetFunc              func(ctx context.Context, name string) (*models.Group, error)
	RequestJoinFunc      func(ctx context.Context, name, email string) (models.MembershipStatus, error)
	ListRequestsFunc     func(ctx context.Context, name, adminEmail string) ([]models.JoinRequest, error)
	RequestsForAdminFunc func(ctx context.Context, adminEmail string) ([]models.JoinRequest, error)
	ResolveFunc          func(ctx context.Context, name, adminEmail, requesterEmail string, accept bool) error
	PostMessageFunc      func(ctx context.Context, name, senderEmail, text string) (*models.Message, error)
	HistoryFunc          func(ctx context.Context, name, memberEmail string) ([]models.Message, error)
}

func (m *mockGroupService) Create(ctx context.Context, params models.CreateGroupParams) (*models.Group, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockGroupService) List(ctx context.Context) ([]models.GroupSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockGroupService) Get(ctx context.Context, name string) (*models.Group, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockGroupService) RequestJoin(ctx context.Context, name, email string) (models.MembershipStatus, error) {
	if m.RequestJoinFunc != nil {
		return m.RequestJoinFunc(ctx, name, email)
	}
	return models.MembershipStatusMember, nil
}

func (m *mockGroupService) ListRequests(ctx context.Context, name, adminEmail string) ([]models.JoinRequest, error) {
	if m.ListRequestsFunc != nil {
		return m.ListRequestsFunc(ctx, name, adminEmail)
	}
	return nil, nil
}

func (m *mockGroupService) RequestsForAdmin(ctx context.Context, adminEmail string) ([]models.JoinRequest, error) {
	if m.RequestsForAdminFunc != nil {
		return m.RequestsForAdminFunc(ctx, adminEmail)
	}
	return nil, nil
}

func (m *mockGroupService) Resolve(ctx context.Context, name, adminEmail, requesterEmail string, accept bool) error {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, name, adminEmail, requesterEmail, accept)
	}
	return nil
}

func (m *mockGroupService) PostMessage(ctx context.Context, name, senderEmail, text string) (*models.Message, error) {
	if m.PostMessageFunc != nil {
		return m.PostMessageFunc(ctx, name, senderEmail, text)
	}
	return nil, nil
}

func (m *mockGroupService) History(ctx context.Context, name, memberEmail string) ([]models.Message, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, name, memberEmail)
	}
	return nil, nil
}

type mockNotificationService struct {
	ListFunc     func(ctx context.Context, email string) ([]models.Notification, error)
	MarkReadFunc func(ctx context.Context, email, id string) error
	DeleteFunc   func(ctx context.Context, email, id string) error
}

func (m *mockNotificationService) List(ctx context.Context, email string) ([]models.Notification, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, email, id string) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, email, id)
	}
	return nil
}

func (m *mockNotificationService) Delete(ctx context.Context, email, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, email, id)
	}
	return nil
}
