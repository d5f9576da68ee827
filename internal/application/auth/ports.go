package auth

import (
	"context"
	"time"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth service needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// Updates needed by business flows
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
	SetResetToken(ctx context.Context, userID, tokenHash string, expiry time.Time) error
	GetByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error)
	ClearResetToken(ctx context.Context, userID string) error
	LockUser(ctx context.Context, userID string) error
	UnlockUser(ctx context.Context, userID string) error
	SetRole(ctx context.Context, userID string, role string) error
	CountByRole(ctx context.Context, role string) (int, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt. The hash is computed exactly once per plaintext change;
repositories only ever see the finished hash.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies the two token classes. Access and refresh tokens are
signed with independent secrets so the trust boundaries stay disjoint.
*/
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, role string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
	SignRefreshToken(userID string, ttl time.Duration) (string, error)
	VerifyRefreshToken(token string) (TokenClaims, error)
}

/*
SessionStore
------------
The outstanding-refresh-token set. A refresh token is only usable while it is
a member of its owner's set; logout removes it, revoke-all empties the set.
Backed by Redis so every instance observes the same revocation state.
*/
type SessionStore interface {
	Add(ctx context.Context, userID, token string, ttl time.Duration) error
	Contains(ctx context.Context, userID, token string) (bool, error)
	Remove(ctx context.Context, token string) error // idempotent
	RemoveAll(ctx context.Context, userID string) error
}

/*
EventPublisher
--------------
Publishes account events for the platform's notification service.
The auth service never sends emails directly.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
	PublishPasswordReset(ctx context.Context, evt PasswordResetEvent) error
}

type UserRegisteredEvent struct {
	UserID   string
	FullName string
	Email    string
}

type PasswordResetEvent struct {
	UserID string
	Email  string
	URL    string
}
