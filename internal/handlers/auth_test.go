package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chatwire/chatwire/internal/models"
	"github.com/chatwire/chatwire/internal/services"
	"github.com/chatwire/chatwire/internal/testutil"
)

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	handler := NewAuthHandler(&mockAuthService{}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("invalid json"))
	rr := httptest.NewRecorder()

	handler.Register(rr, req)

	assertErrorResponse(t, rr, http.StatusBadRequest, "Invalid request body")
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing name", services.ErrNameRequired, http.StatusBadRequest, services.ErrNameRequired.Error()},
		{"bad email", services.ErrInvalidEmail, http.StatusBadRequest, services.ErrInvalidEmail.Error()},
		{"short password", services.ErrPasswordTooShort, http.StatusBadRequest, services.ErrPasswordTooShort.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				SignupFunc: func(ctx context.Context, name, email, password string) (*models.User, string, error) {
					return nil, "", tt.err
				},
			}
			handler := NewAuthHandler(auth, false)

			req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
				UserName: "Alice", Email: "alice@example.com", Password: "password1",
			})
			rr := httptest.NewRecorder()
			handler.Register(rr, req)

			assertErrorResponse(t, rr, tt.status, tt.message)
		})
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	auth := &mockAuthService{
		SignupFunc: func(ctx context.Context, name, email, password string) (*models.User, string, error) {
			return nil, "", services.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(auth, false)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
		UserName: "Alice", Email: "alice@example.com", Password: "password1",
	})
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	assertErrorResponse(t, rr, http.StatusConflict, "Email already registered")
}

func TestAuthHandler_Register_Success(t *testing.T) {
	user := testUser("alice@example.com", "Alice")
	auth := &mockAuthService{
		SignupFunc: func(ctx context.Context, name, email, password string) (*models.User, string, error) {
			return user, "tok123", nil
		},
	}
	handler := NewAuthHandler(auth, false)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
		UserName: "Alice", Email: "alice@example.com", Password: "password1",
	})
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)

	var resp AuthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if resp.User.UserEmail != "alice@example.com" {
		t.Errorf("unexpected user in response: %+v", resp.User)
	}

	cookies := rr.Result().Cookies()
	var session *http.Cookie
	for _, c := range cookies {
		if c.Name == sessionCookieName {
			session = c
		}
	}
	if session == nil {
		t.Fatal("session cookie not set")
	}
	if session.Value != "tok123" {
		t.Errorf("cookie value = %q", session.Value)
	}
	if !session.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if session.SameSite != http.SameSiteStrictMode {
		t.Error("session cookie must be SameSite=Strict")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	auth := &mockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
			return nil, "", services.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(auth, false)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	rr := httptest.NewRecorder()
	handler.Login(rr, req)

	assertErrorResponse(t, rr, http.StatusUnauthorized, "Invalid email or password")
}

func TestAuthHandler_Login_Success(t *testing.T) {
	user := testUser("alice@example.com", "Alice")
	auth := &mockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
			if email != "alice@example.com" {
				t.Errorf("unexpected email %q", email)
			}
			return user, "tok456", nil
		},
	}
	handler := NewAuthHandler(auth, false)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Email: "alice@example.com", Password: "password1",
	})
	rr := httptest.NewRecorder()
	handler.Login(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestAuthHandler_Logout_DeletesSession(t *testing.T) {
	var deleted string
	auth := &mockAuthService{
		DeleteSessionFunc: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	handler := NewAuthHandler(auth, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "tok789"})
	rr := httptest.NewRecorder()
	handler.Logout(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if deleted != "tok789" {
		t.Errorf("expected session tok789 deleted, got %q", deleted)
	}

	var cleared *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookieName {
			cleared = c
		}
	}
	if cleared == nil || cleared.MaxAge != -1 {
		t.Error("session cookie not cleared")
	}
}

func TestAuthHandler_Logout_NoCookie(t *testing.T) {
	auth := &mockAuthService{
		DeleteSessionFunc: func(ctx context.Context, token string) error {
			t.Error("DeleteSession called without a cookie")
			return nil
		},
	}
	handler := NewAuthHandler(auth, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rr := httptest.NewRecorder()
	handler.Logout(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&mockAuthService{}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rr := httptest.NewRecorder()
	handler.Me(rr, req)
	assertErrorResponse(t, rr, http.StatusUnauthorized, "Not authenticated")

	user := testUser("alice@example.com", "Alice")
	req = authed(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), user)
	rr = httptest.NewRecorder()
	handler.Me(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp AuthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if resp.User.UserName != "Alice" {
		t.Errorf("unexpected user %+v", resp.User)
	}
}

func TestAuthHandler_Register_InternalError(t *testing.T) {
	auth := &mockAuthService{
		SignupFunc: func(ctx context.Context, name, email, password string) (*models.User, string, error) {
			return nil, "", errors.New("store down")
		},
	}
	handler := NewAuthHandler(auth, false)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
		UserName: "Alice", Email: "alice@example.com", Password: "password1",
	})
	rr := httptest.NewRecorder()
	handler.Register(rr, req)

	assertErrorResponse(t, rr, http.StatusInternalServerError, "Internal server error")
}
