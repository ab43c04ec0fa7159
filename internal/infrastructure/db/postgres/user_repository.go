package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// UserRepository stores users and artisan profiles in two tables joined by
// user id. It implements both ports.UserRepository and ports.ArtisanRepository.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and, for artisans, the profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := newUserModel(user)
	m.ID = uuid.NewString()
	if m.Artisan != nil {
		m.Artisan.ID = uuid.NewString()
		m.Artisan.UserID = m.ID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return err
		}
		if m.Artisan != nil {
			return tx.Create(m.Artisan).Error
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrContactInUse.Wrap(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	m, err := loadUser(r.db.WithContext(ctx), query, arg)
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func loadUser(db *gorm.DB, query string, arg string) (*userModel, error) {
	var m userModel
	if err := db.Preload("Artisan").Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &m, nil
}

// Update applies patch. ExperienceYears is written to the artisan profile and
// fails with ErrArtisanProfileNotFound for users without one.
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	var updated *userModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := loadUser(tx, "id = ?", id)
		if err != nil {
			return err
		}
		if patch.ExperienceYears != nil && m.Artisan == nil {
			return domain.ErrArtisanProfileNotFound
		}

		if patch.Name != nil || patch.Phone != nil {
			if patch.Name != nil {
				m.Name = *patch.Name
			}
			if patch.Phone != nil {
				m.Phone = *patch.Phone
			}
			profile := m.Artisan
			m.Artisan = nil
			err := tx.Save(m).Error
			m.Artisan = profile
			if err != nil {
				return err
			}
		}
		if patch.ExperienceYears != nil {
			m.Artisan.ExperienceYears = *patch.ExperienceYears
			if err := tx.Save(m.Artisan).Error; err != nil {
				return err
			}
		}
		updated = m
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrContactInUse.Wrap(err)
		}
		if domain.KindOf(err) != domain.KindInternal {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated.toDomain(), nil
}

// Ping checks the underlying connection pool.
func (r *UserRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*domain.ArtisanProfile, error) {
	p, err := loadProfile(r.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return p.toDomain(), nil
}

// UpdateSkills replaces the stored skill list.
func (r *UserRepository) UpdateSkills(ctx context.Context, userID string, skills []string) (*domain.ArtisanProfile, error) {
	return r.mutateProfile(ctx, userID, func(p *artisanProfileModel) {
		p.Skills = skills
	})
}

func (r *UserRepository) SubmitIdentity(ctx context.Context, userID string, sub domain.IdentitySubmission, status domain.VerificationStatus) (*domain.ArtisanProfile, error) {
	return r.mutateProfile(ctx, userID, func(p *artisanProfileModel) {
		p.IDType = sub.IDType
		p.IDFrontImageURL = sub.FrontURL
		p.IDBackImageURL = sub.BackURL
		p.VerificationStatus = string(status)
	})
}

func (r *UserRepository) mutateProfile(ctx context.Context, userID string, mutate func(*artisanProfileModel)) (*domain.ArtisanProfile, error) {
	var updated *artisanProfileModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadProfile(tx, userID)
		if err != nil {
			return err
		}
		mutate(p)
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("save artisan profile: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.toDomain(), nil
}

func loadProfile(db *gorm.DB, userID string) (*artisanProfileModel, error) {
	var p artisanProfileModel
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrArtisanProfileNotFound
		}
		return nil, fmt.Errorf("find artisan profile: %w", err)
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
