package mongo

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

// newIntegrationRepo connects to MONGO_URI and returns a repository over a
// throwaway database. The test is skipped when MONGO_URI is unset.
func newIntegrationRepo(t *testing.T) *UserRepository {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MongoDB not available (MONGO_URI unset)")
	}

	ctx := context.Background()
	name := "bisafix_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	client, db, err := Connect(ctx, Config{URI: uri, Database: name})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo := NewUserRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo
}

func newUser(email, phone, role string) *domain.User {
	u := &domain.User{
		Name:         "Test User",
		Email:        email,
		Phone:        phone,
		PasswordHash: "$2a$10$hash",
		Role:         role,
	}
	if role == domain.RoleArtisan {
		u.Artisan = domain.NewArtisanProfile("")
	}
	return u
}

func TestUserRepositoryMongo_CreateAndFind(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser("kofi@example.com", "+233209876543", domain.RoleArtisan))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byEmail, err := repo.FindByEmail(ctx, "kofi@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	require.NotNil(t, byEmail.Artisan)
	assert.Equal(t, created.ID, byEmail.Artisan.UserID)
	assert.Equal(t, domain.VerificationTier1Pending, byEmail.Artisan.VerificationStatus)

	byPhone, err := repo.FindByPhone(ctx, "+233209876543")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, repo.Ping(ctx))
}

func TestUserRepositoryMongo_UniqueContacts(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("kofi@example.com", "+233209876543", domain.RoleClient))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("kofi@example.com", "+233200000001", domain.RoleClient))
	assert.ErrorIs(t, err, domain.ErrContactInUse)

	_, err = repo.Create(ctx, newUser("other@example.com", "+233209876543", domain.RoleClient))
	assert.ErrorIs(t, err, domain.ErrContactInUse)

	other, err := repo.Create(ctx, newUser("ama@example.com", "+233201234567", domain.RoleClient))
	require.NoError(t, err)

	taken := "+233209876543"
	_, err = repo.Update(ctx, other.ID, domain.UserPatch{Phone: &taken})
	require.ErrorIs(t, err, domain.ErrContactInUse)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestUserRepositoryMongo_Update(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	artisan, err := repo.Create(ctx, newUser("kofi@example.com", "+233209876543", domain.RoleArtisan))
	require.NoError(t, err)
	client, err := repo.Create(ctx, newUser("ama@example.com", "+233201234567", domain.RoleClient))
	require.NoError(t, err)

	name := "Kofi B."
	phone := "+233200000001"
	years := 9
	updated, err := repo.Update(ctx, artisan.ID, domain.UserPatch{Name: &name, Phone: &phone, ExperienceYears: &years})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, phone, updated.Phone)
	require.NotNil(t, updated.Artisan)
	assert.Equal(t, years, updated.Artisan.ExperienceYears)

	_, err = repo.Update(ctx, client.ID, domain.UserPatch{ExperienceYears: &years})
	assert.ErrorIs(t, err, domain.ErrArtisanProfileNotFound)

	_, err = repo.Update(ctx, "missing", domain.UserPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepositoryMongo_ProfileMutations(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	artisan, err := repo.Create(ctx, newUser("kofi@example.com", "+233209876543", domain.RoleArtisan))
	require.NoError(t, err)
	client, err := repo.Create(ctx, newUser("ama@example.com", "+233201234567", domain.RoleClient))
	require.NoError(t, err)

	profile, err := repo.UpdateSkills(ctx, artisan.ID, []string{"plumbing", "tiling"})
	require.NoError(t, err)
	assert.Equal(t, []string{"plumbing", "tiling"}, profile.Skills)

	profile, err = repo.SubmitIdentity(ctx, artisan.ID, domain.IdentitySubmission{
		IDType:   domain.IDTypePassport,
		FrontURL: "https://media.test/front.png",
		BackURL:  "https://media.test/back.png",
	}, domain.VerificationTier1Pending)
	require.NoError(t, err)
	assert.Equal(t, domain.IDTypePassport, profile.IDType)
	assert.Equal(t, "https://media.test/back.png", profile.IDBackImageURL)
	assert.Equal(t, []string{"plumbing", "tiling"}, profile.Skills)

	stored, err := repo.FindByUserID(ctx, artisan.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://media.test/front.png", stored.IDFrontImageURL)

	_, err = repo.UpdateSkills(ctx, client.ID, []string{"plumbing"})
	assert.ErrorIs(t, err, domain.ErrArtisanProfileNotFound)

	_, err = repo.SubmitIdentity(ctx, "missing", domain.IdentitySubmission{IDType: domain.IDTypePassport}, domain.VerificationTier1Pending)
	assert.ErrorIs(t, err, domain.ErrArtisanProfileNotFound)

	_, err = repo.FindByUserID(ctx, client.ID)
	assert.ErrorIs(t, err, domain.ErrArtisanProfileNotFound)
}
