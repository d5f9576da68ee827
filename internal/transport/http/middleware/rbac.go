package middleware

import (
	"net/http"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// RequireRole is the parameterized role gate: the attached identity's role
// must be a member of the allowed set. Assumes Auth() has already injected
// the identity; a valid identity with the wrong role gets 403.
func RequireRole(writeErr WriteErrFunc, allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				// Middleware ordering issue (Auth not applied) or context missing
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			if !domain.IsValidRole(role) {
				writeErr(w, r, domain.ErrForbidden())
				return
			}

			if _, member := set[role]; !member {
				writeErr(w, r, domain.ErrForbidden())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is the convenience wrapper for the common admin-only case.
func RequireAdmin(writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return RequireRole(writeErr, string(domain.RoleAdmin))
}

// RequireMentor allows mentors and admins (moderation surfaces).
func RequireMentor(writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return RequireRole(writeErr, string(domain.RoleMentor), string(domain.RoleAdmin))
}
