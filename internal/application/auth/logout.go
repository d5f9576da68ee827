package auth

import "context"

// Logout removes the given refresh token from its owner's outstanding set.
// Idempotent: logging out an already-removed or unknown token is not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.Remove(ctx, refreshToken)
}
