package domain

import "time"

const (
	RoleClient  = "client"
	RoleArtisan = "artisan"
	RoleAdmin   = "admin"
)

// Roles lists every role a user can sign up with.
var Roles = []string{RoleClient, RoleArtisan, RoleAdmin}

// User models an account holder. Artisan is set iff Role is RoleArtisan.
type User struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	PasswordHash string          `json:"-"`
	Role         string          `json:"role"`
	Artisan      *ArtisanProfile `json:"artisan,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Sanitized returns a copy of u without the password hash.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	if u.Artisan != nil {
		profile := u.Artisan.Clone()
		clone.Artisan = profile
	}
	return &clone
}

// UserPatch holds the optional fields of a profile update. Nil means "leave
// unchanged". ExperienceYears is applied to the artisan profile.
type UserPatch struct {
	Name            *string
	Phone           *string
	ExperienceYears *int
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.ExperienceYears == nil
}
