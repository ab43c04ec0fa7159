package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

// RequireRole enforces role-based access control on the user attached by
// AttachUser.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	denied := domain.NewForbidden("Access denied. Required role: " + strings.Join(allowedRoles, " or "))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFrom(c)
			if user == nil {
				return domain.ErrAuthenticationRequired
			}
			if _, ok := allowed[user.Role]; !ok {
				return denied
			}
			return next(c)
		}
	}
}
