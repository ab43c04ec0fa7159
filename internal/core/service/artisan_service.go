package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bisafix/marketplace-api/internal/core/domain"
	"github.com/bisafix/marketplace-api/internal/core/ports"
	"github.com/bisafix/marketplace-api/internal/pkg/metrics"
)

// artisanService manages the artisan-only part of a user.
type artisanService struct {
	repo ports.ArtisanRepository
	log  zerolog.Logger
}

// NewArtisanService returns a ports.ArtisanService implementation.
func NewArtisanService(repo ports.ArtisanRepository, log zerolog.Logger) ports.ArtisanService {
	return &artisanService{repo: repo, log: log}
}

func (s *artisanService) Profile(ctx context.Context, userID string) (*domain.ArtisanProfile, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// UpdateSkills replaces the skill list wholesale.
func (s *artisanService) UpdateSkills(ctx context.Context, userID string, skills []string) (*domain.ArtisanProfile, error) {
	profile, err := s.repo.UpdateSkills(ctx, userID, append([]string(nil), skills...))
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Int("skills", len(skills)).Msg("skills updated")
	return profile, nil
}

// SubmitIdentityVerification stores the document and always resets the
// verification status to tier1_pending, whatever it was before.
func (s *artisanService) SubmitIdentityVerification(ctx context.Context, userID string, sub domain.IdentitySubmission) (*domain.ArtisanProfile, error) {
	profile, err := s.repo.SubmitIdentity(ctx, userID, sub, domain.VerificationTier1Pending)
	if err != nil {
		return nil, err
	}
	metrics.VerificationSubmissionsTotal.WithLabelValues(sub.IDType).Inc()
	s.log.Info().Str("user_id", userID).Str("id_type", sub.IDType).Msg("identity verification submitted")
	return profile, nil
}
