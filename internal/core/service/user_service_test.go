package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

func seedUser(t *testing.T, repo *stubUserRepo, email, phone, role string) *domain.User {
	t.Helper()
	user := &domain.User{Name: "Ama", Email: email, Phone: phone, PasswordHash: "hash", Role: role}
	if role == domain.RoleArtisan {
		user.Artisan = domain.NewArtisanProfile("")
	}
	created, err := repo.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return created
}

func TestUserService_FindAbsentIsNotAnError(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), nopLog)
	ctx := context.Background()

	for name, find := range map[string]func() (*domain.User, error){
		"id":    func() (*domain.User, error) { return svc.FindByID(ctx, "missing") },
		"email": func() (*domain.User, error) { return svc.FindByEmail(ctx, "missing@example.com") },
		"phone": func() (*domain.User, error) { return svc.FindByPhone(ctx, "+10000000") },
	} {
		user, err := find()
		if err != nil || user != nil {
			t.Fatalf("find by %s: expected nil, nil; got %v, %v", name, user, err)
		}
	}
}

func TestUserService_FindSanitizes(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "ama@example.com", "+233201234567", domain.RoleArtisan)
	svc := NewUserService(repo, nopLog)

	user, err := svc.FindByEmail(context.Background(), "ama@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user.ID != seeded.ID || user.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Artisan == nil {
		t.Fatalf("expected artisan profile to be included")
	}
}

func TestUserService_FindPropagatesStoreErrors(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("boom")
	svc := NewUserService(repo, nopLog)

	if _, err := svc.FindByID(context.Background(), "x"); err == nil {
		t.Fatalf("expected store error")
	}
}

func TestUserService_Update(t *testing.T) {
	repo := newStubUserRepo()
	artisan := seedUser(t, repo, "kofi@example.com", "+233209876543", domain.RoleArtisan)
	client := seedUser(t, repo, "ama@example.com", "+233201234567", domain.RoleClient)
	svc := NewUserService(repo, nopLog)
	ctx := context.Background()

	name := "Kofi Boateng"
	years := 7
	user, err := svc.Update(ctx, artisan.ID, domain.UserPatch{Name: &name, ExperienceYears: &years})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if user.Name != name || user.Artisan.ExperienceYears != years || user.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Update(ctx, client.ID, domain.UserPatch{ExperienceYears: &years}); !errors.Is(err, domain.ErrArtisanProfileNotFound) {
		t.Fatalf("expected ErrArtisanProfileNotFound, got %v", err)
	}

	taken := client.Phone
	if _, err := svc.Update(ctx, artisan.ID, domain.UserPatch{Phone: &taken}); !errors.Is(err, domain.ErrContactInUse) {
		t.Fatalf("expected ErrContactInUse, got %v", err)
	}

	if _, err := svc.Update(ctx, "missing", domain.UserPatch{Name: &name}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateEmptyPatchReturnsCurrent(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "ama@example.com", "+233201234567", domain.RoleClient)
	svc := NewUserService(repo, nopLog)

	user, err := svc.Update(context.Background(), seeded.ID, domain.UserPatch{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if user.Name != seeded.Name {
		t.Fatalf("unexpected user: %+v", user)
	}
}
