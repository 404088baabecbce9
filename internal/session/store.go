// Package session keeps server-side login state keyed by an opaque id.
package session

import (
	"context"
	"errors"
)

// ErrSessionNotFound the id is unknown, expired, or was destroyed
var ErrSessionNotFound = errors.New("session not found")

// Store maps session ids to user ids
type Store interface {
	// Create opens a session for userID and returns its id
	Create(ctx context.Context, userID uint) (string, error)
	// Get resolves id and extends its lifetime
	Get(ctx context.Context, id string) (uint, error)
	// Delete destroys id; unknown ids are not an error
	Delete(ctx context.Context, id string) error
	// DeleteUser destroys every session of userID
	DeleteUser(ctx context.Context, userID uint) error
}
