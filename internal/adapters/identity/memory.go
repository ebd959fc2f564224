package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryUser struct {
	id   UserID
	hash string
}

// MemoryStore keeps users in process memory.
type MemoryStore struct {
	cost int

	mu    sync.RWMutex
	users map[string]memoryUser
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := newSettings(opts)
	return &MemoryStore{cost: s.cost, users: make(map[string]memoryUser)}
}

// Register implements Store.
func (s *MemoryStore) Register(ctx context.Context, username, password string) (UserID, error) {
	username, err := validate(username, password)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	_, taken := s.users[username]
	s.mu.RUnlock()
	if taken {
		return "", ErrDuplicateUsername
	}

	// Hash outside the lock; bcrypt is slow on purpose.
	hash, err := hashPassword(password, s.cost)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users[username]; taken {
		return "", ErrDuplicateUsername
	}
	id := UserID(uuid.NewString())
	s.users[username] = memoryUser{id: id, hash: hash}
	return id, nil
}

// Verify implements Store.
func (s *MemoryStore) Verify(ctx context.Context, username, password string) (UserID, error) {
	username, err := validate(username, password)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := checkPassword(u.hash, password); err != nil {
		return "", err
	}
	return u.id, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
