package domain

import "time"

// VerificationStatus is the identity review state of an artisan.
type VerificationStatus string

const (
	VerificationTier1Pending  VerificationStatus = "tier1_pending"
	VerificationTier1Verified VerificationStatus = "tier1_verified"
	VerificationTier1Rejected VerificationStatus = "tier1_rejected"
)

const (
	IDTypeNationalID     = "national_id"
	IDTypePassport       = "passport"
	IDTypeDriversLicense = "drivers_license"
)

// ArtisanProfile is the artisan-only extension of a User.
type ArtisanProfile struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"userId"`
	Skills             []string           `json:"skills"`
	ExperienceYears    int                `json:"experienceYears"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	IDType             string             `json:"idType,omitempty"`
	IDFrontImageURL    string             `json:"idFrontImageUrl,omitempty"`
	IDBackImageURL     string             `json:"idBackImageUrl,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// Clone returns a deep copy of p.
func (p *ArtisanProfile) Clone() *ArtisanProfile {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Skills != nil {
		clone.Skills = append([]string(nil), p.Skills...)
	}
	return &clone
}

// NewArtisanProfile returns the profile created alongside an artisan signup.
func NewArtisanProfile(userID string) *ArtisanProfile {
	return &ArtisanProfile{
		UserID:             userID,
		Skills:             []string{},
		VerificationStatus: VerificationTier1Pending,
	}
}

// IdentitySubmission carries the documents of a tier-1 verification request.
type IdentitySubmission struct {
	IDType   string
	FrontURL string
	BackURL  string
}
