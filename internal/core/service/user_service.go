package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/bisafix/marketplace-api/internal/core/domain"
	"github.com/bisafix/marketplace-api/internal/core/ports"
)

// userService is the user directory backed by a UserRepository.
type userService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

// NewUserService returns a ports.UserService implementation.
func NewUserService(repo ports.UserRepository, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, log: log}
}

func (s *userService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.find(s.repo.FindByID(ctx, id))
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.find(s.repo.FindByEmail(ctx, email))
}

func (s *userService) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return s.find(s.repo.FindByPhone(ctx, phone))
}

// find turns a repository miss into (nil, nil) and strips the password hash.
func (s *userService) find(user *domain.User, err error) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.Sanitized(), nil
}

// Update applies patch to the user. An empty patch returns the current user.
func (s *userService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if patch.Empty() {
		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return user.Sanitized(), nil
	}

	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Msg("profile updated")
	return user.Sanitized(), nil
}
