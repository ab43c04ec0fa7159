package domain

import "time"

// Session is an authenticated session issued by the session provider. Token is
// opaque to everything but the provider.
type Session struct {
	Handle    string
	UserID    string
	Role      string
	Token     string
	ExpiresAt time.Time
}
