package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/savoro/catering-auth/internal/core/domain"
	"github.com/savoro/catering-auth/internal/core/port"
	"github.com/savoro/catering-auth/internal/infra/config"
	"github.com/savoro/catering-auth/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka. Emails, phones,
// and IPs are masked before they leave the process.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	AccountID int64            `json:"account_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, accountID int64, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		AccountID: accountID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: envelopeMetadata{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAccountRegistered publishes catering.account.registered events.
func (p *EventPublisher) PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error {
	payload := struct {
		AccountID    int64          `json:"account_id"`
		Email        string         `json:"email"`
		Phone        string         `json:"phone,omitempty"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		AccountID:    event.AccountID,
		Email:        logger.MaskEmail(event.Email),
		Phone:        logger.MaskPhone(event.Phone),
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "account.registered", event.AccountID, event.RegisteredAt, payload)
}

// PublishLoginSucceeded publishes catering.auth.login events.
func (p *EventPublisher) PublishLoginSucceeded(ctx context.Context, event domain.LoginSucceededEvent) error {
	payload := struct {
		AccountID  int64          `json:"account_id"`
		Email      string         `json:"email"`
		RememberMe bool           `json:"remember_me"`
		IPAddress  string         `json:"ip_address,omitempty"`
		LoginAt    time.Time      `json:"login_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		AccountID:  event.AccountID,
		Email:      logger.MaskEmail(event.Email),
		RememberMe: event.RememberMe,
		IPAddress:  logger.MaskIP(event.IPAddress),
		LoginAt:    event.LoginAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "auth.login", event.AccountID, event.LoginAt, payload)
}

// PublishLoginFailed publishes catering.auth.login_failed events.
func (p *EventPublisher) PublishLoginFailed(ctx context.Context, event domain.LoginFailedEvent) error {
	payload := struct {
		AccountID int64          `json:"account_id,omitempty"`
		Email     string         `json:"email"`
		Reason    string         `json:"reason"`
		IPAddress string         `json:"ip_address,omitempty"`
		FailedAt  time.Time      `json:"failed_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		AccountID: event.AccountID,
		Email:     logger.MaskEmail(event.Email),
		Reason:    event.Reason,
		IPAddress: logger.MaskIP(event.IPAddress),
		FailedAt:  event.FailedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "auth.login_failed", event.AccountID, event.FailedAt, payload)
}

// PublishLogout publishes catering.auth.logout events.
func (p *EventPublisher) PublishLogout(ctx context.Context, event domain.LogoutEvent) error {
	payload := struct {
		AccountID int64          `json:"account_id"`
		LogoutAt  time.Time      `json:"logout_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		AccountID: event.AccountID,
		LogoutAt:  event.LogoutAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "auth.logout", event.AccountID, event.LogoutAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
