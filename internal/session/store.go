package session

import (
	"context"
	"errors"
	"sync"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"go.uber.org/zap"
)

// Authenticator is the backend's auth API.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Identity, error)
	Register(ctx context.Context, name, email, password string) error
}

// Store holds the identity of one storefront session. The persisted identity
// is read once when the store is created and written only on login and logout.
type Store struct {
	mu        sync.RWMutex
	sessionID string
	auth      Authenticator
	storage   Storage
	logger    *zap.Logger
	identity  domain.Identity
}

func NewStore(sessionID string, auth Authenticator, storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{sessionID: sessionID, auth: auth, storage: storage, logger: logger}
	identity, err := storage.Load(sessionID)
	switch {
	case err == nil:
		s.identity = identity
	case !errors.Is(err, ErrNoIdentity):
		logger.Warn("could not load stored identity", zap.String("session_id", sessionID), zap.Error(err))
	}
	return s
}

// Login errors come straight from the backend so the caller can show its message.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	identity, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := s.storage.Save(s.sessionID, identity); err != nil {
		s.logger.Error("could not persist identity", zap.String("session_id", s.sessionID), zap.Error(err))
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	return identity, nil
}

// Register creates the account; the shopper still has to log in.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	return s.auth.Register(ctx, name, email, password)
}

func (s *Store) Logout() {
	if err := s.storage.Delete(s.sessionID); err != nil {
		s.logger.Error("could not remove stored identity", zap.String("session_id", s.sessionID), zap.Error(err))
	}
	s.mu.Lock()
	s.identity = domain.Identity{}
	s.mu.Unlock()
}

func (s *Store) Identity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Token
}
