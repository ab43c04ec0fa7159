package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

const (
	ctxSessionKey = "session"
	ctxUserKey    = "user"
)

// SessionFrom returns the session stored by RequireSession, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(ctxSessionKey).(*domain.Session)
	return sess
}

// UserFrom returns the user stored by AttachUser, or nil.
func UserFrom(c echo.Context) *domain.User {
	user, _ := c.Get(ctxUserKey).(*domain.User)
	return user
}

// WithSession stores sess on c. Used by RequireSession and by tests.
func WithSession(c echo.Context, sess *domain.Session) {
	c.Set(ctxSessionKey, sess)
}

// WithUser stores user on c.
func WithUser(c echo.Context, user *domain.User) {
	c.Set(ctxUserKey, user)
}
