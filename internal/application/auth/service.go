package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

type Service struct {
	users    UserRepo
	hasher   PasswordHasher
	signer   TokenSigner
	sessions SessionStore
	pub      EventPublisher

	accessTTL  time.Duration
	refreshTTL time.Duration
	audit      func(action string, fields map[string]string)

	// URL used to build reset links sent via the notification service,
	// e.g. https://frontend/reset-password?token=
	passwordResetBaseURL string
	passwordResetTTL     time.Duration
}

type Config struct {
	AccessTTL             time.Duration
	RefreshTTL            time.Duration
	PasswordResetBaseURL  string
	PasswordResetTokenTTL time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	sessions SessionStore,
	pub EventPublisher,
	cfg Config,
) *Service {
	resetTTL := cfg.PasswordResetTokenTTL
	if resetTTL <= 0 {
		resetTTL = 30 * time.Minute
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		signer:   signer,
		sessions: sessions,
		pub:      pub,
		audit:    func(string, map[string]string) {},

		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,

		passwordResetBaseURL: cfg.PasswordResetBaseURL,
		passwordResetTTL:     resetTTL,
	}
}

// AuthTokens is the common token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string // empty on refresh: the refresh token is not rotated
	ExpiresIn    int64  // seconds
	TokenType    string // "Bearer"
}

type LoginResult struct {
	User   domain.User
	Tokens AuthTokens
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// newOpaqueToken returns a URL-safe opaque token.
func newOpaqueToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// digest is the storage form of opaque tokens: the raw value only ever
// travels to the client.
func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
