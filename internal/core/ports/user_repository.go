package ports

import (
	"context"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

// UserRepository defines persistence for users and their embedded artisan
// profile. Lookups return domain.ErrUserNotFound when no row matches.
type UserRepository interface {
	// Create inserts the user and, when user.Artisan is set, its profile in
	// the same transaction. Unique violations surface as domain.ErrContactInUse.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	Ping(ctx context.Context) error
}

// ArtisanRepository defines persistence for artisan profiles keyed by user id.
// Every method returns domain.ErrArtisanProfileNotFound when the user has no profile.
type ArtisanRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.ArtisanProfile, error)
	UpdateSkills(ctx context.Context, userID string, skills []string) (*domain.ArtisanProfile, error)
	SubmitIdentity(ctx context.Context, userID string, sub domain.IdentitySubmission, status domain.VerificationStatus) (*domain.ArtisanProfile, error)
}
