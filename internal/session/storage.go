package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// StorageKey is the key the current identity is persisted under.
const StorageKey = "kra360_user"

var (
	ErrNotFound = errors.New("session entry not found")
	// ErrCorrupt marks an entry that exists but cannot be decoded or
	// decrypted.
	ErrCorrupt = errors.New("session entry unreadable")
)

// Storage persists opaque session entries. Load returns ErrNotFound for a
// missing key. Delete of a missing key is not an error.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage keeps entries for the lifetime of the process.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *MemoryStorage) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Sealer encrypts entries at rest.
type Sealer interface {
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// EncryptedStorage seals every value before handing it to the inner storage.
type EncryptedStorage struct {
	inner  Storage
	sealer Sealer
}

func NewEncryptedStorage(inner Storage, sealer Sealer) *EncryptedStorage {
	return &EncryptedStorage{inner: inner, sealer: sealer}
}

func (e *EncryptedStorage) Load(ctx context.Context, key string) ([]byte, error) {
	sealed, err := e.inner.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	plain, err := e.sealer.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("open session entry: %w: %w", ErrCorrupt, err)
	}
	return plain, nil
}

func (e *EncryptedStorage) Save(ctx context.Context, key string, value []byte) error {
	sealed, err := e.sealer.Encrypt(value)
	if err != nil {
		return fmt.Errorf("seal session entry: %w", err)
	}
	return e.inner.Save(ctx, key, sealed)
}

func (e *EncryptedStorage) Delete(ctx context.Context, key string) error {
	return e.inner.Delete(ctx, key)
}
