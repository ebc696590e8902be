// Package session keeps the server-side binding from an opaque session id to
// a snapshot of the authenticated user.
package session

import (
	"time"

	"kedai/internal/models"
)

// Session is a live login. User is a password-redacted snapshot.
type Session struct {
	ID        string
	User      models.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at t.
func (s Session) Expired(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && !t.Before(s.ExpiresAt)
}

// Store is safe for concurrent use. Implementations may be shared caches;
// callers only depend on this interface.
type Store interface {
	Save(s Session) error
	// Get returns the session for id, or false when it is unknown or expired.
	Get(id string) (Session, bool)
	Delete(id string)
	// RefreshUser replaces the user snapshot in every session of that user
	// and returns how many sessions were touched.
	RefreshUser(user models.User) int
	// DeleteByUser drops every session of userID and returns how many were dropped.
	DeleteByUser(userID string) int
}
