package auth

import (
	"context"
	"strings"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// LockUser locks a target user account so it can no longer log in or refresh.
// Hard rules enforced here (not in handlers):
// - Nobody can lock themselves
// - Mentor cannot lock admin
// - Requires at least mentor
func (s *Service) LockUser(ctx context.Context, actorID, actorRole, targetUserID string) error {
	return s.setLocked(ctx, "mod.lock_user", actorID, actorRole, targetUserID, true)
}

// UnlockUser reverses LockUser under the same rules.
func (s *Service) UnlockUser(ctx context.Context, actorID, actorRole, targetUserID string) error {
	return s.setLocked(ctx, "mod.unlock_user", actorID, actorRole, targetUserID, false)
}

func (s *Service) setLocked(ctx context.Context, action, actorID, actorRole, targetUserID string, locked bool) error {
	actorID = strings.TrimSpace(actorID)
	actorRole = strings.TrimSpace(actorRole)
	targetUserID = strings.TrimSpace(targetUserID)

	audit := s.moderationAudit(action, actorID, actorRole, targetUserID)

	if targetUserID == "" {
		return audit(domain.ErrMissingField("user_id"))
	}
	if !domain.IsValidRole(actorRole) {
		return audit(domain.ErrForbidden())
	}
	if domain.RoleRank(actorRole) < domain.RoleRank(string(domain.RoleMentor)) {
		return audit(domain.ErrInsufficientRole(string(domain.RoleMentor)))
	}
	if actorID != "" && actorID == targetUserID {
		return audit(domain.ErrCannotModerateSelf())
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		return audit(err)
	}
	if actorRole != string(domain.RoleAdmin) && target.Role == string(domain.RoleAdmin) {
		return audit(domain.ErrCannotModerateAdmin())
	}

	if locked {
		err = s.users.LockUser(ctx, targetUserID)
	} else {
		err = s.users.UnlockUser(ctx, targetUserID)
	}
	if err != nil {
		return audit(err)
	}

	if locked {
		// A locked account keeps no live sessions.
		_ = s.sessions.RemoveAll(ctx, targetUserID)
	}
	return audit(nil)
}
