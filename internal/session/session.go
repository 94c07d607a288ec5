// Package session implements opaque, database-backed browser sessions.
// The session id doubles as the cookie value; validating a token refreshes
// the expiry once less than half the lifetime remains.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"authstack/internal/auth"
	"authstack/internal/model"
	"authstack/internal/repository"
)

const (
	// CookieName matches the cookie the browser presents on every request.
	CookieName = "auth_session"
	// Lifetime is the absolute session lifetime from creation or refresh.
	Lifetime = 30 * 24 * time.Hour
)

// Manager creates, validates and invalidates sessions.
type Manager struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	secure   bool
	logger   zerolog.Logger
}

// NewManager builds a Manager. secure controls the Secure cookie attribute.
func NewManager(sessions repository.SessionRepository, users repository.UserRepository, secure bool, logger zerolog.Logger) *Manager {
	return &Manager{
		sessions: sessions,
		users:    users,
		secure:   secure,
		logger:   logger,
	}
}

// Create issues a new session for the user with a fresh opaque id and a
// full 30-day expiry.
func (m *Manager) Create(ctx context.Context, userID string) (*model.Session, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:        token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(Lifetime),
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate resolves a session token to its user and session. Unknown or
// expired tokens yield (nil, nil, false, nil); expired rows are deleted on
// the way out. fresh is true when the expiry was extended, signalling the
// caller to rewrite the cookie.
func (m *Manager) Validate(ctx context.Context, token string) (*model.User, *model.Session, bool, error) {
	session, err := m.sessions.FindByID(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}

	now := time.Now()
	if session.Expired(now) {
		if err := m.sessions.Delete(ctx, session.ID); err != nil {
			m.logger.Warn().Err(err).Str("session_id", session.ID).Msg("delete expired session")
		}
		return nil, nil, false, nil
	}

	fresh := false
	if now.Add(Lifetime / 2).After(session.ExpiresAt) {
		session.ExpiresAt = now.Add(Lifetime)
		if err := m.sessions.UpdateExpiry(ctx, session.ID, session.ExpiresAt); err != nil {
			return nil, nil, false, err
		}
		fresh = true
	}

	user, err := m.users.FindByID(ctx, session.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Orphaned session; treat as invalid.
		if err := m.sessions.Delete(ctx, session.ID); err != nil {
			m.logger.Warn().Err(err).Str("session_id", session.ID).Msg("delete orphaned session")
		}
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}

	return user, session, fresh, nil
}

// Invalidate removes a session by id. Used by sign-out.
func (m *Manager) Invalidate(ctx context.Context, sessionID string) error {
	return m.sessions.Delete(ctx, sessionID)
}

// NewCookie builds the session cookie for a validated or freshly created session.
func (m *Manager) NewCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewBlankCookie builds an expired cookie that clears the session on the
// browser. Used for sign-out and invalid tokens.
func (m *Manager) NewBlankCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
