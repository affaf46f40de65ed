package services

import (
	"context"
	"errors"
	"testing"

	"github.com/chatwire/chatwire/internal/models"
)

func TestUserList(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(st)
	friends := NewFriendService(st, nil)
	users := NewUserService(st)
	ctx := context.Background()

	mustCreateUser(t, st, auth, "Alice", "alice@example.com")
	mustCreateUser(t, st, auth, "Bob", "bob@example.com")
	mustCreateUser(t, st, auth, "Carol", "carol@example.com")
	mustCreateUser(t, st, auth, "Dave", "dave@example.com")

	makeFriends(t, friends, "alice@example.com", "bob@example.com")
	if err := friends.SendRequest(ctx, "alice@example.com", "carol@example.com"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if err := friends.SendRequest(ctx, "dave@example.com", "alice@example.com"); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	summaries, err := users.List(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	got := make(map[string]models.FriendshipStatus)
	for _, s := range summaries {
		got[s.UserEmail] = s.FriendshipStatus
	}
	if _, ok := got["alice@example.com"]; ok {
		t.Error("listing must exclude the viewer")
	}

	want := map[string]models.FriendshipStatus{
		"bob@example.com":   models.FriendshipStatusFriend,
		"carol@example.com": models.FriendshipStatusSent,
		"dave@example.com":  models.FriendshipStatusReceived,
	}
	for email, status := range want {
		if got[email] != status {
			t.Errorf("status for %s = %q, want %q", email, got[email], status)
		}
	}
}

func TestUserListUnknownViewer(t *testing.T) {
	users := NewUserService(newTestStore(t))
	if _, err := users.List(context.Background(), "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("List() error = %v, want ErrUserNotFound", err)
	}
}

func TestSetOnline(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(st)
	friends := NewFriendService(st, nil)
	users := NewUserService(st)
	ctx := context.Background()

	mustCreateUser(t, st, auth, "Alice", "alice@example.com")
	mustCreateUser(t, st, auth, "Bob", "bob@example.com")
	makeFriends(t, friends, "alice@example.com", "bob@example.com")

	if err := users.SetOnline(ctx, "alice@example.com", true); err != nil {
		t.Fatalf("SetOnline() error = %v", err)
	}

	alice, _ := st.GetUser(ctx, "alice@example.com")
	bob, _ := st.GetUser(ctx, "bob@example.com")
	if !alice.Online {
		t.Error("user's own flag not set")
	}
	if !bob.EdgeTo("alice@example.com").Online {
		t.Error("presence not mirrored into friend's edge")
	}

	if err := users.SetOnline(ctx, "alice@example.com", false); err != nil {
		t.Fatalf("SetOnline() error = %v", err)
	}
	bob, _ = st.GetUser(ctx, "bob@example.com")
	if bob.EdgeTo("alice@example.com").Online {
		t.Error("offline transition not mirrored")
	}
}

func TestGetByID(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(st)
	users := NewUserService(st)
	ctx := context.Background()

	created := mustCreateUser(t, st, auth, "Alice", "alice@example.com")

	got, err := users.GetByID(ctx, created.UserID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.UserEmail != "alice@example.com" {
		t.Errorf("GetByID() email = %q", got.UserEmail)
	}

	if _, err := users.GetByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() unknown id error = %v, want ErrUserNotFound", err)
	}
}
