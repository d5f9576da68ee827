package auth

import (
	"errors"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// domainCode extracts the stable error code from a domain error, or "internal".
func domainCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal"
}

// moderationAudit returns a terminal audit func for actor-on-target actions:
// call it with the outcome error (nil for success) and return its result.
func (s *Service) moderationAudit(action, actorID, actorRole, targetID string) func(error) error {
	return func(err error) error {
		fields := map[string]string{
			"actor_id":   actorID,
			"actor_role": actorRole,
			"target_id":  targetID,
		}
		if err != nil {
			fields["result"] = "error"
			fields["error_code"] = domainCode(err)
		} else {
			fields["result"] = "success"
		}
		s.audit(action, fields)
		return err
	}
}
