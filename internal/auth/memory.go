package auth

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryUserStore implements UserStore in process. It backs the HTTP
// test suites and local development; production uses the Postgres store.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*User
}

var _ UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore creates an empty directory.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[int64]*User)}
}

func (s *MemoryUserStore) Insert(ctx context.Context, u *User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	for _, existing := range s.users {
		if existing.Email == email {
			return 0, ErrConflict
		}
	}
	s.nextID++
	stored := *u
	stored.ID = s.nextID
	stored.Email = email
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.users[stored.ID] = &stored
	return stored.ID, nil
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryUserStore) SetApproved(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Approved {
		return ErrNotFound
	}
	u.Approved = true
	return nil
}

func (s *MemoryUserStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryUserStore) ListPending(ctx context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*User{}
	for _, u := range s.users {
		if !u.Approved {
			copied := *u
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryUserStore) List(ctx context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*User{}
	for _, u := range s.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
