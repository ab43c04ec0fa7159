package ports

import (
	"context"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

// UserService is the user directory. Find* return nil with a nil error when
// no user matches; every returned user is sanitized.
type UserService interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
}

// ArtisanService manages artisan skills and identity verification.
type ArtisanService interface {
	Profile(ctx context.Context, userID string) (*domain.ArtisanProfile, error)
	UpdateSkills(ctx context.Context, userID string, skills []string) (*domain.ArtisanProfile, error)
	SubmitIdentityVerification(ctx context.Context, userID string, sub domain.IdentitySubmission) (*domain.ArtisanProfile, error)
}
