// Package session holds the signed-in identity of one dashboard session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"kra360/internal/domain/auth"
)

// Authenticator is the login collaborator.
type Authenticator interface {
	LoginByZohoID(ctx context.Context, zohoUserID string) (auth.BackendUser, error)
}

// Store holds at most one identity. Login and Logout are its only mutators;
// RestoreSession is called once when the store is created.
type Store struct {
	mu       sync.RWMutex
	authn    Authenticator
	storage  Storage
	logger   *slog.Logger
	identity *auth.Identity
	lastErr  string
	inFlight int
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(authn Authenticator, storage Storage, opts ...Option) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		authn:   authn,
		storage: storage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates by HRIS user id and persists the resulting identity.
// Concurrent logins are not coordinated; the last one to finish wins.
func (s *Store) Login(ctx context.Context, zohoUserID string) (auth.Identity, error) {
	zohoUserID = strings.TrimSpace(zohoUserID)
	if zohoUserID == "" {
		return auth.Identity{}, s.fail(&AuthenticationError{Message: "Zoho user id is required"})
	}

	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	user, err := s.authn.LoginByZohoID(ctx, zohoUserID)
	if err != nil {
		return auth.Identity{}, s.fail(&AuthenticationError{Message: err.Error(), Err: err})
	}

	identity := auth.IdentityFromBackend(user)
	if err := s.persist(ctx, identity); err != nil {
		s.logger.Warn("persist session failed", "user", identity.ID, "err", err)
	}

	s.mu.Lock()
	s.identity = &identity
	s.lastErr = ""
	s.mu.Unlock()
	return identity, nil
}

func (s *Store) fail(err *AuthenticationError) error {
	s.mu.Lock()
	s.lastErr = err.Message
	s.mu.Unlock()
	return err
}

// Logout clears the identity, the retained error and the persisted entry.
// It never fails and may be called any number of times.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, StorageKey); err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Warn("clear session failed", "err", err)
	}
}

// RestoreSession loads a persisted identity. An unreadable entry is removed
// and the store stays signed out. Other load failures leave the entry in
// place for a later attempt.
func (s *Store) RestoreSession(ctx context.Context) (auth.Identity, bool) {
	raw, err := s.storage.Load(ctx, StorageKey)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		return auth.Identity{}, false
	case errors.Is(err, ErrCorrupt):
		s.discard(ctx, err)
		return auth.Identity{}, false
	default:
		s.logger.Warn("load stored session failed", "err", err)
		return auth.Identity{}, false
	}

	var identity auth.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		s.discard(ctx, err)
		return auth.Identity{}, false
	}
	if identity.ID == "" || !identity.Role.Valid() {
		s.discard(ctx, errors.New("incomplete identity"))
		return auth.Identity{}, false
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()
	return identity, true
}

func (s *Store) discard(ctx context.Context, cause error) {
	s.logger.Debug("discarding stored session", "err", cause)
	_ = s.storage.Delete(ctx, StorageKey)
}

func (s *Store) persist(ctx context.Context, identity auth.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, StorageKey, raw)
}

func (s *Store) CurrentUser() (auth.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return auth.Identity{}, false
	}
	return *s.identity, true
}

// CurrentRole is empty when nobody is signed in.
func (s *Store) CurrentRole() auth.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.Role
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// LastError is the message of the last failed login until it is cleared.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}
