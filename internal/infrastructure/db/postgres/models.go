package postgres

import (
	"time"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

type userModel struct {
	ID           string               `gorm:"primaryKey;size:36"`
	Name         string               `gorm:"size:100;not null"`
	Email        string               `gorm:"size:255;uniqueIndex;not null"`
	Phone        string               `gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string               `gorm:"not null"`
	Role         string               `gorm:"size:16;not null"`
	Artisan      *artisanProfileModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type artisanProfileModel struct {
	ID                 string   `gorm:"primaryKey;size:36"`
	UserID             string   `gorm:"size:36;uniqueIndex;not null"`
	Skills             []string `gorm:"type:text;serializer:json"`
	ExperienceYears    int      `gorm:"not null"`
	VerificationStatus string   `gorm:"size:32;not null"`
	IDType             string   `gorm:"size:32"`
	IDFrontImageURL    string
	IDBackImageURL     string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (artisanProfileModel) TableName() string { return "artisan_profiles" }

func newUserModel(u *domain.User) *userModel {
	m := &userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
	if u.Artisan != nil {
		m.Artisan = newArtisanProfileModel(u.Artisan)
	}
	return m
}

func newArtisanProfileModel(p *domain.ArtisanProfile) *artisanProfileModel {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return &artisanProfileModel{
		ID:                 p.ID,
		UserID:             p.UserID,
		Skills:             skills,
		ExperienceYears:    p.ExperienceYears,
		VerificationStatus: string(p.VerificationStatus),
		IDType:             p.IDType,
		IDFrontImageURL:    p.IDFrontImageURL,
		IDBackImageURL:     p.IDBackImageURL,
	}
}

func (m *userModel) toDomain() *domain.User {
	u := &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Artisan != nil {
		u.Artisan = m.Artisan.toDomain()
	}
	return u
}

func (m *artisanProfileModel) toDomain() *domain.ArtisanProfile {
	skills := m.Skills
	if skills == nil {
		skills = []string{}
	}
	return &domain.ArtisanProfile{
		ID:                 m.ID,
		UserID:             m.UserID,
		Skills:             skills,
		ExperienceYears:    m.ExperienceYears,
		VerificationStatus: domain.VerificationStatus(m.VerificationStatus),
		IDType:             m.IDType,
		IDFrontImageURL:    m.IDFrontImageURL,
		IDBackImageURL:     m.IDBackImageURL,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
