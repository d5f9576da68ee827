package auth

import (
	"context"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

func (s *Service) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
