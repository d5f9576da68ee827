package auth

import (
	"context"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// Refresh issues a new access token for a valid refresh token.
// Policy: the refresh token is NOT rotated — it stays valid until its natural
// expiry or an explicit logout. That keeps near-simultaneous refreshes from
// multiple devices safe.
//
// A refresh token must pass two checks: signature/expiry against the refresh
// secret, and membership in the owner's outstanding set. A token removed at
// logout is rejected even if it has not yet expired.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	if refreshToken == "" {
		return AuthTokens{}, domain.ErrRefreshTokenInvalid()
	}

	claims, err := s.signer.VerifyRefreshToken(refreshToken)
	if err != nil {
		// Expired vs malformed is logged upstream; the caller only sees 401.
		return AuthTokens{}, domain.ErrRefreshTokenInvalid()
	}

	ok, err := s.sessions.Contains(ctx, claims.UserID, refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if !ok {
		// Revoked (logged out) but not yet expired.
		return AuthTokens{}, domain.ErrRefreshTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		// If the user is gone, treat as an invalid session.
		return AuthTokens{}, domain.ErrRefreshTokenInvalid()
	}

	if u.Locked {
		return AuthTokens{}, domain.ErrAccountLocked()
	}

	access, err := s.signer.SignAccessToken(u.ID, u.Role, s.accessTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}

	return AuthTokens{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}
