package auth

import (
	"context"
	"strings"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// Login authenticates a user and issues one access token and one refresh
// token. The refresh token is added to the user's outstanding set.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	// Only after the credential check, so a locked response never confirms
	// an email for an unauthenticated caller.
	if u.Locked {
		return LoginResult{}, domain.ErrAccountLocked()
	}

	access, err := s.signer.SignAccessToken(u.ID, u.Role, s.accessTTL)
	if err != nil {
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	refresh, err := s.signer.SignRefreshToken(u.ID, s.refreshTTL)
	if err != nil {
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	if err := s.sessions.Add(ctx, u.ID, refresh, s.refreshTTL); err != nil {
		return LoginResult{}, err
	}

	s.audit("auth.login", map[string]string{"user_id": u.ID})

	return LoginResult{
		User: u,
		Tokens: AuthTokens{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "Bearer",
			ExpiresIn:    int64(s.accessTTL.Seconds()),
		},
	}, nil
}
