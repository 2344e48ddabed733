// Package session stores imported builds between requests. Builds are
// keyed by session ID and expire after a TTL; Redis backs multi-instance
// deployments while the in-memory store covers single-node and testing.
package session

import (
	"context"
	"errors"

	"exile-tracker/internal/domain"
)

// ErrNotFound is returned when no build exists for a session ID,
// including sessions that have expired.
var ErrNotFound = errors.New("session not found")

// Store is the session persistence interface.
type Store interface {
	// Save persists a build under its session ID, resetting the TTL.
	Save(ctx context.Context, build *domain.Build) error

	// Get retrieves a build by session ID. Returns ErrNotFound for
	// unknown or expired sessions.
	Get(ctx context.Context, sessionID string) (*domain.Build, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
