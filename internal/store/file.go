package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/chatwire/chatwire/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	usersFile  = "users.json"
	groupsFile = "groups.json"
)

// FileStore keeps all documents in memory and persists them to JSON files in
// a data directory. Writes go to a temp file first and are renamed into place
// so a crash mid-write never leaves a truncated file behind.
type FileStore struct {
	dir   string
	locks *keyLock

	mu     sync.RWMutex
	users  map[string]*models.User  // keyed by email
	groups map[string]*models.Group // keyed by group name
}

// NewFileStore opens (or creates) the data directory and loads any existing
// documents.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &FileStore{
		dir:    dir,
		locks:  newKeyLock(),
		users:  make(map[string]*models.User),
		groups: make(map[string]*models.Group),
	}

	var users []*models.User
	if err := loadFile(filepath.Join(dir, usersFile), &users); err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	for _, u := range users {
		s.users[u.UserEmail] = u
	}

	var groups []*models.Group
	if err := loadFile(filepath.Join(dir, groupsFile), &groups); err != nil {
		return nil, fmt.Errorf("loading groups: %w", err)
	}
	for _, g := range groups {
		s.groups[g.GroupName] = g
	}

	return s, nil
}

func loadFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func writeFile(path string, src any) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func clone[T any](v *T) (*T, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileStore) flushUsers() error {
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserEmail < users[j].UserEmail })
	return writeFile(filepath.Join(s.dir, usersFile), users)
}

func (s *FileStore) flushGroups() error {
	groups := make([]*models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].GroupName < groups[j].GroupName })
	return writeFile(filepath.Join(s.dir, groupsFile), groups)
}

func (s *FileStore) CreateUser(ctx context.Context, user *models.User) error {
	unlock := s.locks.Lock("user:" + user.UserEmail)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UserEmail]; ok {
		return ErrUserExists
	}
	stored, err := clone(user)
	if err != nil {
		return fmt.Errorf("storing user: %w", err)
	}
	s.users[user.UserEmail] = stored
	if err := s.flushUsers(); err != nil {
		delete(s.users, user.UserEmail)
		return fmt.Errorf("persisting users: %w", err)
	}
	return nil
}

func (s *FileStore) GetUser(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	u, ok := s.users[email]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return clone(u)
}

func (s *FileStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.UserID == id {
			return clone(u)
		}
	}
	return nil, ErrUserNotFound
}

func (s *FileStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		cp, err := clone(u)
		if err != nil {
			return nil, err
		}
		users = append(users, cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserEmail < users[j].UserEmail })
	return users, nil
}

func (s *FileStore) UpdateUser(ctx context.Context, email string, mutate func(*models.User) error) (*models.User, error) {
	unlock := s.locks.Lock("user:" + email)
	defer unlock()

	s.mu.RLock()
	current, ok := s.users[email]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}

	updated, err := clone(current)
	if err != nil {
		return nil, err
	}
	if err := mutate(updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = updated
	if err := s.flushUsers(); err != nil {
		s.users[email] = current
		return nil, fmt.Errorf("persisting users: %w", err)
	}
	return clone(updated)
}

func (s *FileStore) UpdateUserPair(ctx context.Context, emailA, emailB string, mutate func(a, b *models.User) error) error {
	unlock := s.locks.LockPair("user:"+emailA, "user:"+emailB)
	defer unlock()

	s.mu.RLock()
	currentA, okA := s.users[emailA]
	currentB, okB := s.users[emailB]
	s.mu.RUnlock()
	if !okA || !okB {
		return ErrUserNotFound
	}

	updatedA, err := clone(currentA)
	if err != nil {
		return err
	}
	updatedB, err := clone(currentB)
	if err != nil {
		return err
	}
	if err := mutate(updatedA, updatedB); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[emailA] = updatedA
	s.users[emailB] = updatedB
	if err := s.flushUsers(); err != nil {
		s.users[emailA] = currentA
		s.users[emailB] = currentB
		return fmt.Errorf("persisting users: %w", err)
	}
	return nil
}

func (s *FileStore) CreateGroup(ctx context.Context, group *models.Group) error {
	unlock := s.locks.Lock("group:" + group.GroupName)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[group.GroupName]; ok {
		return ErrGroupExists
	}
	stored, err := clone(group)
	if err != nil {
		return fmt.Errorf("storing group: %w", err)
	}
	s.groups[group.GroupName] = stored
	if err := s.flushGroups(); err != nil {
		delete(s.groups, group.GroupName)
		return fmt.Errorf("persisting groups: %w", err)
	}
	return nil
}

func (s *FileStore) GetGroup(ctx context.Context, name string) (*models.Group, error) {
	s.mu.RLock()
	g, ok := s.groups[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrGroupNotFound
	}
	return clone(g)
}

func (s *FileStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]*models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		cp, err := clone(g)
		if err != nil {
			return nil, err
		}
		groups = append(groups, cp)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].GroupName < groups[j].GroupName })
	return groups, nil
}

func (s *FileStore) UpdateGroup(ctx context.Context, name string, mutate func(*models.Group) error) (*models.Group, error) {
	unlock := s.locks.Lock("group:" + name)
	defer unlock()

	s.mu.RLock()
	current, ok := s.groups[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrGroupNotFound
	}

	updated, err := clone(current)
	if err != nil {
		return nil, err
	}
	if err := mutate(updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[name] = updated
	if err := s.flushGroups(); err != nil {
		s.groups[name] = current
		return nil, fmt.Errorf("persisting groups: %w", err)
	}
	return clone(updated)
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *FileStore) Close() error {
	return nil
}
