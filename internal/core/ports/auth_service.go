package ports

import (
	"context"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

// SignupInput carries the fields of a registration request.
type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// AuthService implements signup, login and logout.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error)
	Logout(ctx context.Context, sessionHandle string) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}
