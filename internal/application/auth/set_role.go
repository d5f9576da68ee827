package auth

import (
	"context"
	"strings"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// SetUserRole changes a target user's role. Admin only (the router enforces
// this too; the service re-checks as defense in depth).
func (s *Service) SetUserRole(ctx context.Context, actorID, actorRole, targetUserID, newRole string) error {
	const action = "admin.set_user_role"

	actorID = strings.TrimSpace(actorID)
	actorRole = strings.TrimSpace(actorRole)
	targetUserID = strings.TrimSpace(targetUserID)
	newRole = strings.TrimSpace(newRole)

	audit := s.moderationAudit(action, actorID, actorRole, targetUserID)

	if targetUserID == "" {
		return audit(domain.ErrMissingField("user_id"))
	}
	if newRole == "" {
		return audit(domain.ErrMissingField("role"))
	}
	if !domain.IsValidRole(newRole) {
		return audit(domain.ErrInvalidRole(newRole))
	}

	if domain.RoleRank(actorRole) < domain.RoleRank(string(domain.RoleAdmin)) {
		return audit(domain.ErrInsufficientRole(string(domain.RoleAdmin)))
	}

	// An admin cannot change their own role.
	if actorID != "" && actorID == targetUserID {
		return audit(domain.ErrCannotAffectSelf())
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		return audit(err)
	}

	// Protect the last admin from demotion.
	if target.Role == string(domain.RoleAdmin) && newRole != string(domain.RoleAdmin) {
		cnt, err := s.users.CountByRole(ctx, string(domain.RoleAdmin))
		if err != nil {
			return audit(err)
		}
		if cnt <= 1 {
			return audit(domain.ErrLastAdminProtected())
		}
	}

	if err := s.users.SetRole(ctx, targetUserID, newRole); err != nil {
		return audit(err)
	}

	return audit(nil)
}
