package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository stores each user as one document with the artisan profile
// embedded. It implements ports.UserRepository and ports.ArtisanRepository.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID           string      `bson:"_id"`
	Name         string      `bson:"name"`
	Email        string      `bson:"email"`
	Phone        string      `bson:"phone"`
	PasswordHash string      `bson:"password_hash"`
	Role         string      `bson:"role"`
	Artisan      *artisanDoc `bson:"artisan,omitempty"`
	CreatedAt    time.Time   `bson:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at"`
}

type artisanDoc struct {
	ID                 string    `bson:"id"`
	Skills             []string  `bson:"skills"`
	ExperienceYears    int       `bson:"experience_years"`
	VerificationStatus string    `bson:"verification_status"`
	IDType             string    `bson:"id_type,omitempty"`
	IDFrontImageURL    string    `bson:"id_front_image_url,omitempty"`
	IDBackImageURL     string    `bson:"id_back_image_url,omitempty"`
	CreatedAt          time.Time `bson:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at"`
}

func newUserDoc(u *domain.User, now time.Time) userDoc {
	doc := userDoc{
		ID:           uuid.NewString(),
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p := u.Artisan; p != nil {
		skills := p.Skills
		if skills == nil {
			skills = []string{}
		}
		doc.Artisan = &artisanDoc{
			ID:                 uuid.NewString(),
			Skills:             skills,
			ExperienceYears:    p.ExperienceYears,
			VerificationStatus: string(p.VerificationStatus),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
	}
	return doc
}

func (d *userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Artisan != nil {
		u.Artisan = d.Artisan.toDomain(d.ID)
	}
	return u
}

func (a *artisanDoc) toDomain(userID string) *domain.ArtisanProfile {
	skills := a.Skills
	if skills == nil {
		skills = []string{}
	}
	return &domain.ArtisanProfile{
		ID:                 a.ID,
		UserID:             userID,
		Skills:             skills,
		ExperienceYears:    a.ExperienceYears,
		VerificationStatus: domain.VerificationStatus(a.VerificationStatus),
		IDType:             a.IDType,
		IDFrontImageURL:    a.IDFrontImageURL,
		IDBackImageURL:     a.IDBackImageURL,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newUserDoc(user, time.Now().UTC())
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrContactInUse.Wrap(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies patch with a single $set. ExperienceYears requires an
// embedded artisan profile.
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.ExperienceYears != nil && current.Artisan == nil {
		return nil, domain.ErrArtisanProfileNotFound
	}

	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.ExperienceYears != nil {
		set["artisan.experience_years"] = *patch.ExperienceYears
		set["artisan.updated_at"] = now
	}

	doc, err := r.findOneAndSet(ctx, bson.M{"_id": id}, set)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrContactInUse.Wrap(err)
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}

func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*domain.ArtisanProfile, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrArtisanProfileNotFound
		}
		return nil, err
	}
	if user.Artisan == nil {
		return nil, domain.ErrArtisanProfileNotFound
	}
	return user.Artisan, nil
}

// UpdateSkills replaces the embedded skill list.
func (r *UserRepository) UpdateSkills(ctx context.Context, userID string, skills []string) (*domain.ArtisanProfile, error) {
	return r.setProfile(ctx, userID, bson.M{"artisan.skills": skills})
}

func (r *UserRepository) SubmitIdentity(ctx context.Context, userID string, sub domain.IdentitySubmission, status domain.VerificationStatus) (*domain.ArtisanProfile, error) {
	return r.setProfile(ctx, userID, bson.M{
		"artisan.id_type":             sub.IDType,
		"artisan.id_front_image_url":  sub.FrontURL,
		"artisan.id_back_image_url":   sub.BackURL,
		"artisan.verification_status": string(status),
	})
}

func (r *UserRepository) setProfile(ctx context.Context, userID string, set bson.M) (*domain.ArtisanProfile, error) {
	now := time.Now().UTC()
	set["artisan.updated_at"] = now
	set["updated_at"] = now

	filter := bson.M{"_id": userID, "artisan": bson.M{"$exists": true, "$ne": nil}}
	doc, err := r.findOneAndSet(ctx, filter, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArtisanProfileNotFound
		}
		return nil, fmt.Errorf("update artisan profile: %w", err)
	}
	return doc.Artisan.toDomain(doc.ID), nil
}

func (r *UserRepository) findOneAndSet(ctx context.Context, filter, set bson.M) (*userDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EnsureIndexes creates the unique indexes backing the email and phone invariants.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
