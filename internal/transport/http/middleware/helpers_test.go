package middleware

import (
	"context"
	"encoding/json"
	"testing"

	"kra360/internal/domain/auth"
	"kra360/internal/session"
)

type stubAuthn struct {
	users map[string]auth.BackendUser
}

func (s stubAuthn) LoginByZohoID(_ context.Context, zohoUserID string) (auth.BackendUser, error) {
	user, ok := s.users[zohoUserID]
	if !ok {
		return auth.BackendUser{}, &session.AuthenticationError{Message: "User not found"}
	}
	return user, nil
}

// viewerContext returns a context carrying a signed-in browser session.
func viewerContext(t *testing.T, identity auth.Identity) context.Context {
	t.Helper()
	storage := session.NewMemoryStorage()
	raw, err := json.Marshal(identity)
	if err != nil {
		t.Fatalf("marshal identity: %v", err)
	}
	if err := storage.Save(context.Background(), session.StorageKey, raw); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	store := session.New(stubAuthn{}, storage)
	if _, ok := store.RestoreSession(context.Background()); !ok {
		t.Fatal("expected identity to restore")
	}
	return context.WithValue(context.Background(), ctxKeyBrowser, &Browser{ID: "browser-1", Store: store})
}
