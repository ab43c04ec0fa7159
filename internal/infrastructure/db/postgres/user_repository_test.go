package postgres

import (
	"context"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         NewGormLogger(zerolog.New(io.Discard)),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return NewUserRepository(db)
}

func newArtisan(email, phone string) *domain.User {
	return &domain.User{
		Name:         "Kofi Boateng",
		Email:        email,
		Phone:        phone,
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleArtisan,
		Artisan:      domain.NewArtisanProfile(""),
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newArtisan("kofi@example.com", "+233209876543"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.Artisan)
	assert.Equal(t, created.ID, created.Artisan.UserID)

	byEmail, err := repo.FindByEmail(ctx, "kofi@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "$2a$10$hash", byEmail.PasswordHash)
	require.NotNil(t, byEmail.Artisan)
	assert.Equal(t, domain.VerificationTier1Pending, byEmail.Artisan.VerificationStatus)
	assert.Empty(t, byEmail.Artisan.Skills)

	byPhone, err := repo.FindByPhone(ctx, "+233209876543")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "kofi@example.com", byID.Email)
}

func TestUserRepository_ClientHasNoProfile(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{
		Name: "Ama", Email: "ama@example.com", Phone: "+233201234567",
		PasswordHash: "h", Role: domain.RoleClient,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Artisan)

	_, err = repo.FindByUserID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrArtisanProfileNotFound)

	years := 3
	_, err = repo.Update(ctx, created.ID, domain.UserPatch{ExperienceYears: &years})
	assert.ErrorIs(t, err, domain.ErrArtisanProfileNotFound)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	name := "x"
	_, err = repo.Update(ctx, "missing", domain.UserPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newArtisan("kofi@example.com", "+233209876543"))
	require.NoError(t, err)

	name := "Kofi B."
	phone := "+233200000001"
	years := 12
	updated, err := repo.Update(ctx, created.ID, domain.UserPatch{Name: &name, Phone: &phone, ExperienceYears: &years})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, phone, updated.Phone)
	require.NotNil(t, updated.Artisan)
	assert.Equal(t, years, updated.Artisan.ExperienceYears)

	reloaded, err := repo.FindByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, years, reloaded.Artisan.ExperienceYears)
}

func TestUserRepository_UpdateConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newArtisan("kofi@example.com", "+233209876543"))
	require.NoError(t, err)
	other, err := repo.Create(ctx, newArtisan("ama@example.com", "+233201234567"))
	require.NoError(t, err)

	taken := "+233209876543"
	_, err = repo.Update(ctx, other.ID, domain.UserPatch{Phone: &taken})
	require.ErrorIs(t, err, domain.ErrContactInUse)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// The failed transaction leaves the row untouched.
	reloaded, err := repo.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "+233201234567", reloaded.Phone)

	_, err = repo.Create(ctx, newArtisan("kofi@example.com", "+233200000009"))
	require.ErrorIs(t, err, domain.ErrContactInUse)
}

func TestUserRepository_ProfileMutations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newArtisan("kofi@example.com", "+233209876543"))
	require.NoError(t, err)

	profile, err := repo.UpdateSkills(ctx, created.ID, []string{"plumbing", "tiling"})
	require.NoError(t, err)
	assert.Equal(t, []string{"plumbing", "tiling"}, profile.Skills)

	profile, err = repo.SubmitIdentity(ctx, created.ID, domain.IdentitySubmission{
		IDType:   domain.IDTypePassport,
		FrontURL: "https://media/front.png",
		BackURL:  "https://media/back.png",
	}, domain.VerificationTier1Pending)
	require.NoError(t, err)
	assert.Equal(t, domain.IDTypePassport, profile.IDType)
	assert.Equal(t, "https://media/front.png", profile.IDFrontImageURL)
	assert.Equal(t, "https://media/back.png", profile.IDBackImageURL)

	stored, err := repo.FindByUserID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"plumbing", "tiling"}, stored.Skills)
	assert.Equal(t, domain.VerificationTier1Pending, stored.VerificationStatus)
}

func TestUserRepository_Ping(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
