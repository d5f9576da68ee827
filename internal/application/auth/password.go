package auth

import (
	"context"
	"time"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// PasswordChange changes the password of an authenticated user.
func (s *Service) PasswordChange(ctx context.Context, userID, oldPassword, newPassword string) error {
	if userID == "" {
		return domain.ErrTokenMissing()
	}
	if oldPassword == "" || newPassword == "" {
		return domain.ErrInvalidField("password", "empty")
	}
	if len(newPassword) < minPasswordLength {
		return domain.ErrWeakPassword("min length 6")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(u.PasswordHash, oldPassword); err != nil {
		return domain.ErrInvalidCredentials()
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return err
	}

	s.audit("auth.password_change", map[string]string{"user_id": userID})

	// All sessions die with the old credential.
	_ = s.sessions.RemoveAll(ctx, userID)
	return nil
}

// PasswordResetRequest stores a one-time reset token digest on the user record
// and publishes an event carrying the reset link.
// IMPORTANT: non-enumerating — the caller always returns 200.
func (s *Service) PasswordResetRequest(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil
	}

	token, err := newOpaqueToken(32)
	if err != nil {
		return domain.ErrRandomFailed(err)
	}

	expiry := time.Now().Add(s.passwordResetTTL)
	if err := s.users.SetResetToken(ctx, u.ID, digest(token), expiry); err != nil {
		return err
	}

	s.audit("auth.password_reset_requested", map[string]string{"user_id": u.ID})

	url := s.passwordResetBaseURL + token
	return s.pub.PublishPasswordReset(ctx, PasswordResetEvent{
		UserID: u.ID,
		Email:  u.Email,
		URL:    url,
	})
}

// PasswordResetConfirm consumes the reset token and sets a new password.
func (s *Service) PasswordResetConfirm(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrMissingField("token")
	}
	if newPassword == "" {
		return domain.ErrMissingField("newPassword")
	}
	if len(newPassword) < minPasswordLength {
		return domain.ErrWeakPassword("min length 6")
	}

	u, err := s.users.GetByResetTokenHash(ctx, digest(token))
	if err != nil {
		return domain.ErrResetTokenNotFound()
	}
	if u.ResetTokenExpiry.Before(time.Now()) {
		// Expired tokens are indistinguishable from unknown ones.
		_ = s.users.ClearResetToken(ctx, u.ID)
		return domain.ErrResetTokenNotFound()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	if err := s.users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return err
	}
	if err := s.users.ClearResetToken(ctx, u.ID); err != nil {
		return err
	}

	s.audit("auth.password_reset_confirmed", map[string]string{"user_id": u.ID})

	_ = s.sessions.RemoveAll(ctx, u.ID)
	return nil
}
