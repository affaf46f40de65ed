package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSignup(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(st)
	ctx := context.Background()

	user, token, err := auth.Signup(ctx, "Alice", "Alice@Example.com", "long enough password")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if token == "" {
		t.Error("Signup() returned empty session token")
	}
	if user.UserEmail != "alice@example.com" {
		t.Errorf("email not normalized: %q", user.UserEmail)
	}
	if user.UserID == "" {
		t.Error("Signup() did not assign a user id")
	}
	if user.PasswordHash == "long enough password" {
		t.Error("password stored in plain text")
	}

	stored, err := st.GetUser(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if !auth.VerifyPassword(stored.PasswordHash, "long enough password") {
		t.Error("stored hash does not verify against the password")
	}
}

func TestSignupValidation(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(st)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"empty name", "", "a@example.com", "long enough", ErrNameRequired},
		{"bad email", "Alice", "not-an-email", "long enough", ErrInvalidEmail},
		{"short password", "Alice", "a@example.com", "short", ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := auth.Signup(ctx, tt.userName, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Signup() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(st)
	ctx := context.Background()

	mustCreateUser(t, st, auth, "Alice", "alice@example.com")

	_, _, err := auth.Signup(ctx, "Other Alice", "alice@example.com", "another password")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Signup() error = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(st)
	ctx := context.Background()

	mustCreateUser(t, st, auth, "Alice", "alice@example.com")

	user, token, err := auth.Login(ctx, "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.UserEmail != "alice@example.com" || token == "" {
		t.Errorf("Login() = (%q, %q)", user.UserEmail, token)
	}

	if _, _, err := auth.Login(ctx, "alice@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := auth.Login(ctx, "nobody@example.com", "whatever pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateSession(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(st)
	ctx := context.Background()

	_, token, err := auth.Signup(ctx, "Alice", "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	user, err := auth.ValidateSession(ctx, token)
	if err != nil {
		t.Fatalf("ValidateSession() error = %v", err)
	}
	if user.UserEmail != "alice@example.com" {
		t.Errorf("ValidateSession() user = %q", user.UserEmail)
	}

	if _, err := auth.ValidateSession(ctx, "bogus-token"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ValidateSession() bogus token error = %v, want ErrSessionNotFound", err)
	}

	if err := auth.DeleteSession(ctx, token); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := auth.ValidateSession(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ValidateSession() after logout error = %v, want ErrSessionNotFound", err)
	}
}

func TestGenerateSessionToken(t *testing.T) {
	auth := newAuthService(newTestStore(t))

	token, hash, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(token))
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(hash))
	}
	if token == hash {
		t.Error("token and hash must differ")
	}

	token2, _, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if token == token2 {
		t.Error("two tokens must not collide")
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	sessions := NewMemorySessionStore()
	ctx := context.Background()

	if err := sessions.Set(ctx, "hash", "alice@example.com", -time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := sessions.Get(ctx, "hash"); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Get() expired session error = %v, want ErrSessionExpired", err)
	}
	// Expired entry is removed on access.
	if _, err := sessions.Get(ctx, "hash"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() removed session error = %v, want ErrSessionNotFound", err)
	}
}
