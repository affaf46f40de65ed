package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatwire/chatwire/internal/models"
	"github.com/chatwire/chatwire/internal/store"
)

const (
	bcryptCost      = 12
	sessionDuration = 30 * 24 * time.Hour // 30 days
)

var (
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService owns signup, login and session lifecycle. Session tokens are 32
// random bytes hex encoded; only the SHA-256 hash of the token is stored.
type AuthService struct {
	store             store.Store
	sessions          SessionStore
	minPasswordLength int
}

func NewAuthService(st store.Store, sessions SessionStore, minPasswordLength int) *AuthService {
	return &AuthService{
		store:             st,
		sessions:          sessions,
		minPasswordLength: minPasswordLength,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) VerifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Signup validates the input, creates the user and opens a session.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, "", ErrNameRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < s.minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		UserID:       uuid.New().String(),
		UserName:     name,
		UserEmail:    email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.CreateSession(ctx, email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUser(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting user: %w", err)
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.CreateSession(ctx, email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GenerateSessionToken() (token string, hash string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	token = hex.EncodeToString(bytes)
	hashBytes := sha256.Sum256([]byte(token))
	hash = hex.EncodeToString(hashBytes[:])

	return token, hash, nil
}

func (s *AuthService) hashToken(token string) string {
	hashBytes := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hashBytes[:])
}

func (s *AuthService) CreateSession(ctx context.Context, email string) (string, error) {
	token, tokenHash, err := s.GenerateSessionToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Set(ctx, tokenHash, email, sessionDuration); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateSession resolves a raw token to its user.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	email, err := s.sessions.Get(ctx, s.hashToken(token))
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *AuthService) DeleteSession(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, s.hashToken(token))
}
