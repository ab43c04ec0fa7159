package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUser_Sanitized(t *testing.T) {
	u := &User{
		ID:           "u1",
		Email:        "kofi@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         RoleArtisan,
		Artisan:      &ArtisanProfile{UserID: "u1", Skills: []string{"plumbing"}},
	}

	clean := u.Sanitized()
	if clean.PasswordHash != "" {
		t.Fatalf("hash must be cleared")
	}
	if u.PasswordHash == "" {
		t.Fatalf("original must be left untouched")
	}

	clean.Artisan.Skills[0] = "tiling"
	if u.Artisan.Skills[0] != "plumbing" {
		t.Fatalf("artisan profile must be deep-copied")
	}

	var nilUser *User
	if nilUser.Sanitized() != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestUser_JSONNeverCarriesHash(t *testing.T) {
	out, err := json.Marshal(&User{ID: "u1", PasswordHash: "$2a$10$secret", Role: RoleClient})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "secret") || strings.Contains(string(out), "artisan") {
		t.Fatalf("unexpected fields in %s", out)
	}
}

func TestUserPatch_Empty(t *testing.T) {
	name := "Ama"
	if !(UserPatch{}).Empty() {
		t.Fatalf("zero patch is empty")
	}
	if (UserPatch{Name: &name}).Empty() {
		t.Fatalf("patch with a name is not empty")
	}
}

func TestNewArtisanProfile(t *testing.T) {
	p := NewArtisanProfile("u1")
	if p.VerificationStatus != VerificationTier1Pending || p.Skills == nil || len(p.Skills) != 0 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}
