package session

import (
	"context"
	"sync"
	"time"
)

// Scopes hands out the storage of one browser session.
type Scopes interface {
	For(scope string) Storage
}

// MemoryScopes keeps every browser session in process memory. A scope is
// dropped when its last entry is deleted or after ttl without use.
type MemoryScopes struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	scopes  map[string]*MemoryStorage
	touched map[string]time.Time
}

func NewMemoryScopes(ttl time.Duration) *MemoryScopes {
	return &MemoryScopes{
		ttl:     ttl,
		now:     time.Now,
		scopes:  make(map[string]*MemoryStorage),
		touched: make(map[string]time.Time),
	}
}

func (m *MemoryScopes) For(scope string) Storage {
	m.mu.Lock()
	m.sweep()
	m.mu.Unlock()
	return memoryScope{parent: m, scope: scope}
}

// Len reports how many scopes hold entries.
func (m *MemoryScopes) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scopes)
}

func (m *MemoryScopes) sweep() {
	if m.ttl <= 0 {
		return
	}
	cutoff := m.now().Add(-m.ttl)
	for scope, at := range m.touched {
		if at.Before(cutoff) {
			delete(m.scopes, scope)
			delete(m.touched, scope)
		}
	}
}

// storage returns the storage of scope, creating it when create is set.
func (m *MemoryScopes) storage(scope string, create bool) *MemoryStorage {
	m.mu.Lock()
	defer m.mu.Unlock()
	storage, ok := m.scopes[scope]
	if !ok {
		if !create {
			return nil
		}
		storage = NewMemoryStorage()
		m.scopes[scope] = storage
	}
	m.touched[scope] = m.now()
	return storage
}

func (m *MemoryScopes) dropIfEmpty(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if storage, ok := m.scopes[scope]; ok && storage.Len() == 0 {
		delete(m.scopes, scope)
		delete(m.touched, scope)
	}
}

type memoryScope struct {
	parent *MemoryScopes
	scope  string
}

func (s memoryScope) Load(ctx context.Context, key string) ([]byte, error) {
	storage := s.parent.storage(s.scope, false)
	if storage == nil {
		return nil, ErrNotFound
	}
	return storage.Load(ctx, key)
}

func (s memoryScope) Save(ctx context.Context, key string, value []byte) error {
	return s.parent.storage(s.scope, true).Save(ctx, key, value)
}

func (s memoryScope) Delete(ctx context.Context, key string) error {
	storage := s.parent.storage(s.scope, false)
	if storage == nil {
		return nil
	}
	if err := storage.Delete(ctx, key); err != nil {
		return err
	}
	s.parent.dropIfEmpty(s.scope)
	return nil
}

// PGScopes keeps browser sessions in dashboard_sessions.
type PGScopes struct {
	db  DBTX
	ttl time.Duration
}

func NewPGScopes(db DBTX, ttl time.Duration) *PGScopes {
	return &PGScopes{db: db, ttl: ttl}
}

func (p *PGScopes) For(scope string) Storage {
	return NewPGStorage(p.db, scope, p.ttl)
}

// EncryptedScopes seals the entries of every scope.
type EncryptedScopes struct {
	inner  Scopes
	sealer Sealer
}

func NewEncryptedScopes(inner Scopes, sealer Sealer) *EncryptedScopes {
	return &EncryptedScopes{inner: inner, sealer: sealer}
}

func (e *EncryptedScopes) For(scope string) Storage {
	return NewEncryptedStorage(e.inner.For(scope), e.sealer)
}
