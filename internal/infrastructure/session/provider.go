// Package session issues and verifies login sessions. Each session is a Redis
// hash keyed by a random handle; clients hold an HS256 token whose jti is that
// handle, so a token stays valid only while its record exists.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bisafix/marketplace-api/internal/core/domain"
)

const keyPrefix = "session:"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Provider is a ports.SessionProvider backed by Redis.
type Provider struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewProvider(client *redis.Client, secret string, ttl time.Duration) *Provider {
	return &Provider{client: client, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Create stores a session record and returns it with a signed token.
func (p *Provider) Create(ctx context.Context, userID, role string) (*domain.Session, error) {
	now := p.now()
	sess := &domain.Session{
		Handle:    uuid.NewString(),
		UserID:    userID,
		Role:      role,
		ExpiresAt: now.Add(p.ttl),
	}

	key := keyPrefix + sess.Handle
	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "user_id", userID, "role", role, "expires_at", sess.ExpiresAt.Unix())
		pipe.Expire(ctx, key, p.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.Handle,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})
	sess.Token, err = token.SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return sess, nil
}

// Verify checks the token signature and expiry, then that the session record
// still exists. Any token problem yields domain.ErrUnauthorized.
func (p *Provider) Verify(ctx context.Context, token string) (*domain.Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil || c.ID == "" {
		return nil, domain.ErrUnauthorized
	}

	fields, err := p.client.HGetAll(ctx, keyPrefix+c.ID).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 || fields["user_id"] != c.Subject {
		return nil, domain.ErrUnauthorized
	}

	sess := &domain.Session{
		Handle: c.ID,
		UserID: c.Subject,
		Role:   fields["role"],
		Token:  token,
	}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	return sess, nil
}

// Revoke deletes the session record. Unknown handles are ignored.
func (p *Provider) Revoke(ctx context.Context, handle string) error {
	if err := p.client.Del(ctx, keyPrefix+handle).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
