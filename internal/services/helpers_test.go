package services

import (
	"context"
	"sync"
	"testing"

	"github.com/chatwire/chatwire/internal/models"
	"github.com/chatwire/chatwire/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s
}

type publishedEvent struct {
	Room    string
	Event   string
	Payload any
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(room, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Room: room, Event: event, Payload: payload})
}

func (p *recordingPublisher) all() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

func (p *recordingPublisher) find(event string) (publishedEvent, bool) {
	for _, e := range p.all() {
		if e.Event == event {
			return e, true
		}
	}
	return publishedEvent{}, false
}

func mustCreateUser(t *testing.T, st store.Store, auth *AuthService, name, email string) *models.User {
	t.Helper()
	user, _, err := auth.Signup(context.Background(), name, email, "correct horse battery")
	if err != nil {
		t.Fatalf("Signup(%s) error = %v", email, err)
	}
	return user
}

func newAuthService(st store.Store) *AuthService {
	return NewAuthService(st, NewMemorySessionStore(), 8)
}

func makeFriends(t *testing.T, friends *FriendService, a, b string) {
	t.Helper()
	ctx := context.Background()
	if err := friends.SendRequest(ctx, a, b); err != nil {
		t.Fatalf("SendRequest(%s, %s) error = %v", a, b, err)
	}
	if err := friends.AcceptRequest(ctx, b, a); err != nil {
		t.Fatalf("AcceptRequest(%s, %s) error = %v", b, a, err)
	}
}
