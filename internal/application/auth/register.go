package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

const minPasswordLength = 6

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string // optional; defaults to "user"
}

// Register creates a user with a freshly computed credential hash.
// No tokens are issued here; the client logs in afterwards.
// Admin accounts cannot be self-assigned: elevation goes through SetUserRole.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Role = strings.TrimSpace(in.Role)

	if in.FullName == "" {
		return domain.User{}, domain.ErrMissingField("fullName")
	}
	if in.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	if len(in.Password) < minPasswordLength {
		return domain.User{}, domain.ErrWeakPassword("min length 6")
	}

	role := in.Role
	if role == "" {
		role = string(domain.RoleUser)
	}
	if !domain.IsValidRole(role) || role == string(domain.RoleAdmin) {
		return domain.User{}, domain.ErrInvalidRole(in.Role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:            uuid.NewString(),
		FullName:      in.FullName,
		Email:         in.Email,
		PasswordHash:  hash,
		Role:          role,
		EmailVerified: false,
		Locked:        false,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}

	s.audit("auth.register", map[string]string{
		"user_id": created.ID,
		"role":    created.Role,
	})

	// Best effort: a broker outage must not fail registration.
	_ = s.pub.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID:   created.ID,
		FullName: created.FullName,
		Email:    created.Email,
	})

	return created, nil
}
