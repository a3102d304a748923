package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	tokens "kra360/internal/auth"
	"kra360/internal/domain/auth"
	"kra360/internal/requestctx"
	"kra360/internal/session"
	"kra360/internal/transport/http/api"
)

const SessionCookie = "kra360_session"

type ctxKey string

const (
	ctxKeyBrowser ctxKey = "browser"
	ctxKeyViews   ctxKey = "views"
)

// Browser is the dashboard session of one browser. Its Store holds the
// signed-in identity.
type Browser struct {
	ID    string
	Store *session.Store
}

// Sessions issues the signed session cookie and restores the session
// store behind it on every request.
type Sessions struct {
	Secret string
	TTL    time.Duration
	Secure bool
	Scopes session.Scopes
	Authn  session.Authenticator
}

func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := tokens.ParseToken(s.Secret, cookie.Value)
		if err != nil {
			slog.Debug("session cookie rejected", "err", err, "requestId", GetRequestID(r.Context()))
			next.ServeHTTP(w, r)
			return
		}

		browser := s.open(claims.SessionID)
		if viewer, ok := browser.Store.RestoreSession(r.Context()); ok {
			requestctx.SetViewerID(r.Context(), viewer.ID)
		}
		ctx := context.WithValue(r.Context(), ctxKeyBrowser, browser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start returns the request's browser session, creating one and setting
// its cookie when there is none.
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request) (*Browser, error) {
	if browser, ok := GetBrowser(r.Context()); ok {
		return browser, nil
	}
	id := uuid.NewString()
	token, err := tokens.GenerateToken(s.Secret, id, s.TTL)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s.open(id), nil
}

// End clears the session cookie.
func (s *Sessions) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) open(id string) *Browser {
	return &Browser{ID: id, Store: session.New(s.Authn, s.Scopes.For(id))}
}

func GetBrowser(ctx context.Context) (*Browser, bool) {
	browser, ok := ctx.Value(ctxKeyBrowser).(*Browser)
	return browser, ok && browser != nil
}

// GetViewer returns the signed-in identity of the request.
func GetViewer(ctx context.Context) (auth.Identity, bool) {
	browser, ok := GetBrowser(ctx)
	if !ok {
		return auth.Identity{}, false
	}
	return browser.Store.CurrentUser()
}

// RequireViewer rejects requests without a signed-in identity.
func RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetViewer(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
