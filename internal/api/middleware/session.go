package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bisafix/marketplace-api/internal/core/domain"
	"github.com/bisafix/marketplace-api/internal/core/ports"
)

// RequireSession resolves the session token from the cookie named cookieName
// or from an "Authorization: Bearer" header and verifies it with the provider.
// When both are present the cookie is tried first and the header is used if
// the cookie does not verify.
func RequireSession(sessions ports.SessionProvider, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokens := sessionTokens(c, cookieName)
			if len(tokens) == 0 {
				return domain.ErrUnauthorized
			}

			var err error
			for _, token := range tokens {
				var sess *domain.Session
				sess, err = sessions.Verify(c.Request().Context(), token)
				if err == nil {
					WithSession(c, sess)
					return next(c)
				}
			}
			return err
		}
	}
}

func sessionTokens(c echo.Context, cookieName string) []string {
	var tokens []string
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		if token := strings.TrimSpace(parts[1]); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// AttachUser loads the session's user and stores it on the context. It must
// run after RequireSession.
func AttachUser(users ports.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil {
				return domain.ErrUnauthorized
			}

			user, err := users.FindByID(c.Request().Context(), sess.UserID)
			if err != nil {
				return err
			}
			if user == nil {
				return domain.ErrSessionUserMissing
			}

			WithUser(c, user)
			return next(c)
		}
	}
}
