package auth

import (
	"context"
	"strings"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// RevokeOwnSessions removes every outstanding refresh token of the caller.
func (s *Service) RevokeOwnSessions(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrTokenMissing()
	}
	if err := s.sessions.RemoveAll(ctx, userID); err != nil {
		return err
	}
	s.audit("auth.sessions_revoked", map[string]string{"user_id": userID})
	return nil
}

// RevokeUserSessions removes every outstanding refresh token of a target
// user. Admin only; the router enforces this too.
func (s *Service) RevokeUserSessions(ctx context.Context, actorID, actorRole, targetUserID string) error {
	const action = "admin.revoke_sessions"

	actorID = strings.TrimSpace(actorID)
	actorRole = strings.TrimSpace(actorRole)
	targetUserID = strings.TrimSpace(targetUserID)

	audit := s.moderationAudit(action, actorID, actorRole, targetUserID)

	if targetUserID == "" {
		return audit(domain.ErrMissingField("user_id"))
	}
	if domain.RoleRank(actorRole) < domain.RoleRank(string(domain.RoleAdmin)) {
		return audit(domain.ErrInsufficientRole(string(domain.RoleAdmin)))
	}

	if _, err := s.users.GetByID(ctx, targetUserID); err != nil {
		return audit(err)
	}

	if err := s.sessions.RemoveAll(ctx, targetUserID); err != nil {
		return audit(err)
	}
	return audit(nil)
}
