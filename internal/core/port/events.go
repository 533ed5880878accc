package port

import (
	"context"

	"github.com/savoro/catering-auth/internal/core/domain"
)

// EventPublisher publishes audit events to the message bus.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishLoginSucceeded(ctx context.Context, event domain.LoginSucceededEvent) error
	PublishLoginFailed(ctx context.Context, event domain.LoginFailedEvent) error
	PublishLogout(ctx context.Context, event domain.LogoutEvent) error
}
