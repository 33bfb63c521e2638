package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/utils"
)

// MemoryUserStore is the in-process counterpart of UserRepo.
type MemoryUserStore struct {
	mu     sync.RWMutex
	rows   map[uint64]model.User
	lastID uint64
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{rows: make(map[uint64]model.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, email, name, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Email == email {
			return 0, ErrEmailExists
		}
	}
	s.lastID++
	now := time.Now().UTC()
	s.rows[s.lastID] = model.User{
		ID: s.lastID, Email: email, Name: strings.TrimSpace(name), PasswordHash: hash,
		Role: role, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	return s.lastID, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.rows[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

type memoryToken struct {
	userID  uint64
	expires time.Time
	revoked bool
}

// MemoryTokenStore is the in-process counterpart of TokenRepo.
type MemoryTokenStore struct {
	mu   sync.Mutex
	rows map[string]*memoryToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{rows: make(map[string]*memoryToken)}
}

func (s *MemoryTokenStore) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[tokenHash] = &memoryToken{userID: userID, expires: exp}
	return nil
}

func (s *MemoryTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[tokenHash]
	if !ok || t.revoked || time.Now().UTC().After(t.expires) {
		return 0, ErrInvalidToken
	}
	return t.userID, nil
}

func (s *MemoryTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.rows[tokenHash]; ok {
		t.revoked = true
	}
	return nil
}

func (s *MemoryTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.rows {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}
