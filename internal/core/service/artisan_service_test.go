package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

func TestArtisanService_UpdateSkillsReplaces(t *testing.T) {
	repo := newStubUserRepo()
	artisan := seedUser(t, repo, "kofi@example.com", "+233209876543", domain.RoleArtisan)
	svc := NewArtisanService(repo, nopLog)
	ctx := context.Background()

	if _, err := svc.UpdateSkills(ctx, artisan.ID, []string{"plumbing", "tiling"}); err != nil {
		t.Fatalf("UpdateSkills: %v", err)
	}
	profile, err := svc.UpdateSkills(ctx, artisan.ID, []string{"carpentry"})
	if err != nil {
		t.Fatalf("UpdateSkills: %v", err)
	}
	if len(profile.Skills) != 1 || profile.Skills[0] != "carpentry" {
		t.Fatalf("expected skills to be replaced, got %v", profile.Skills)
	}
}

func TestArtisanService_NonArtisan(t *testing.T) {
	repo := newStubUserRepo()
	client := seedUser(t, repo, "ama@example.com", "+233201234567", domain.RoleClient)
	svc := NewArtisanService(repo, nopLog)
	ctx := context.Background()

	if _, err := svc.UpdateSkills(ctx, client.ID, []string{"x"}); !errors.Is(err, domain.ErrArtisanProfileNotFound) {
		t.Fatalf("expected ErrArtisanProfileNotFound, got %v", err)
	}
	if _, err := svc.Profile(ctx, client.ID); !errors.Is(err, domain.ErrArtisanProfileNotFound) {
		t.Fatalf("expected ErrArtisanProfileNotFound, got %v", err)
	}
	sub := domain.IdentitySubmission{IDType: domain.IDTypePassport, FrontURL: "f", BackURL: "b"}
	if _, err := svc.SubmitIdentityVerification(ctx, client.ID, sub); !errors.Is(err, domain.ErrArtisanProfileNotFound) {
		t.Fatalf("expected ErrArtisanProfileNotFound, got %v", err)
	}
}

func TestArtisanService_SubmitIdentityResetsStatus(t *testing.T) {
	repo := newStubUserRepo()
	artisan := seedUser(t, repo, "kofi@example.com", "+233209876543", domain.RoleArtisan)
	repo.users[artisan.ID].Artisan.VerificationStatus = domain.VerificationTier1Rejected
	svc := NewArtisanService(repo, nopLog)

	sub := domain.IdentitySubmission{
		IDType:   domain.IDTypeNationalID,
		FrontURL: "https://media.example.com/front.png",
		BackURL:  "https://media.example.com/back.png",
	}
	profile, err := svc.SubmitIdentityVerification(context.Background(), artisan.ID, sub)
	if err != nil {
		t.Fatalf("SubmitIdentityVerification: %v", err)
	}
	if profile.VerificationStatus != domain.VerificationTier1Pending {
		t.Fatalf("expected tier1_pending, got %s", profile.VerificationStatus)
	}
	if profile.IDType != sub.IDType || profile.IDFrontImageURL != sub.FrontURL || profile.IDBackImageURL != sub.BackURL {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}
