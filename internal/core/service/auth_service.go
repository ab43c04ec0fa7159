package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bisafix/marketplace-api/internal/core/domain"
	"github.com/bisafix/marketplace-api/internal/core/ports"
	"github.com/bisafix/marketplace-api/internal/pkg/metrics"
)

// authService implements signup, login and logout on top of the user
// repository, the password hasher and the session provider.
type authService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	sessions ports.SessionProvider
	log      zerolog.Logger
}

// NewAuthService returns an AuthService implementation.
func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, sessions ports.SessionProvider, log zerolog.Logger) ports.AuthService {
	return &authService{repo: repo, hasher: hasher, sessions: sessions, log: log}
}

// Signup registers a user. The email is checked for uniqueness before the
// phone; artisans get a profile in tier1_pending. No session is created.
func (s *authService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if err := s.ensureUnique(ctx, in.Email, in.Phone); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if in.Role == domain.RoleArtisan {
		user.Artisan = domain.NewArtisanProfile("")
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues(created.Role).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created.Sanitized(), nil
}

func (s *authService) ensureUnique(ctx context.Context, email, phone string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("signup: lookup email: %w", err)
	}

	if _, err := s.repo.FindByPhone(ctx, phone); err == nil {
		return domain.ErrPhoneTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("signup: lookup phone: %w", err)
	}
	return nil
}

// Login verifies the credentials and opens a session carrying the user's role.
// An unknown email and a wrong password yield the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("login: lookup email: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("login: verify password: %w", err)
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, user.ID, user.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, nil, fmt.Errorf("login: create session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return session, user.Sanitized(), nil
}

// Logout revokes the session identified by handle.
func (s *authService) Logout(ctx context.Context, sessionHandle string) error {
	if err := s.sessions.Revoke(ctx, sessionHandle); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
