package ports

import (
	"context"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

// SessionProvider owns the session lifecycle. Tokens are opaque to callers.
type SessionProvider interface {
	// Create starts a session for userID carrying role as a claim.
	Create(ctx context.Context, userID, role string) (*domain.Session, error)
	// Verify resolves a token to its live session, or domain.ErrUnauthorized.
	Verify(ctx context.Context, token string) (*domain.Session, error)
	// Revoke ends the session. Revoking an unknown handle is not an error.
	Revoke(ctx context.Context, handle string) error
}
