package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/savoro/catering-auth/internal/core/domain"
	"github.com/savoro/catering-auth/internal/core/port"
	"github.com/savoro/catering-auth/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured, typically in development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(log *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: log}
}

func (p *StubPublisher) logEvent(eventType string, accountID int64, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.Int64("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs account.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"account_id":    event.AccountID,
		"email":         logger.MaskEmail(event.Email),
		"phone":         logger.MaskPhone(event.Phone),
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("account.registered", event.AccountID, event.RegisteredAt, payload)
	return nil
}

// PublishLoginSucceeded logs auth.login events.
func (p *StubPublisher) PublishLoginSucceeded(_ context.Context, event domain.LoginSucceededEvent) error {
	payload := map[string]any{
		"account_id":  event.AccountID,
		"email":       logger.MaskEmail(event.Email),
		"remember_me": event.RememberMe,
		"ip_address":  logger.MaskIP(event.IPAddress),
		"login_at":    event.LoginAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("auth.login", event.AccountID, event.LoginAt, payload)
	return nil
}

// PublishLoginFailed logs auth.login_failed events.
func (p *StubPublisher) PublishLoginFailed(_ context.Context, event domain.LoginFailedEvent) error {
	payload := map[string]any{
		"account_id": event.AccountID,
		"email":      logger.MaskEmail(event.Email),
		"reason":     event.Reason,
		"ip_address": logger.MaskIP(event.IPAddress),
		"failed_at":  event.FailedAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("auth.login_failed", event.AccountID, event.FailedAt, payload)
	return nil
}

// PublishLogout logs auth.logout events.
func (p *StubPublisher) PublishLogout(_ context.Context, event domain.LogoutEvent) error {
	payload := map[string]any{
		"account_id": event.AccountID,
		"logout_at":  event.LogoutAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("auth.logout", event.AccountID, event.LogoutAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
