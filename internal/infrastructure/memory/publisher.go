package memory

import (
	"context"

	"github.com/mentorhub/community-platform/services/auth-service/internal/application/auth"
)

// NoopPublisher is used in dev when the broker is unavailable.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	return nil
}

func (NoopPublisher) PublishPasswordReset(ctx context.Context, evt auth.PasswordResetEvent) error {
	return nil
}
