package session

import (
	"context"
	"errors"
	"fmt"

	"pm-go/internal/utils"
)

// ErrInvalidToken the cookie value failed signature or claim checks
var ErrInvalidToken = errors.New("invalid session token")

// Manager issues signed cookie tokens that wrap Store session ids
type Manager struct {
	store Store
	jwt   *utils.JWTManager
}

// NewManager creates a Manager
func NewManager(store Store, jwt *utils.JWTManager) *Manager {
	return &Manager{store: store, jwt: jwt}
}

// Start opens a session for userID and returns the cookie value
func (m *Manager) Start(ctx context.Context, userID uint) (string, error) {
	id, err := m.store.Create(ctx, userID)
	if err != nil {
		return "", err
	}
	token, err := m.jwt.GenerateToken(id, userID)
	if err != nil {
		_ = m.store.Delete(ctx, id)
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Resolve returns the user behind a cookie value
func (m *Manager) Resolve(ctx context.Context, token string) (uint, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return 0, ErrInvalidToken
	}
	userID, err := m.store.Get(ctx, claims.SessionID())
	if err != nil {
		return 0, err
	}
	// the signed user id must agree with the server-side record
	if userID != claims.UserID {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// End destroys the session behind a cookie value; bad tokens are ignored
func (m *Manager) End(ctx context.Context, token string) error {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.SessionID())
}

// EndUser destroys every session of userID
func (m *Manager) EndUser(ctx context.Context, userID uint) error {
	return m.store.DeleteUser(ctx, userID)
}
