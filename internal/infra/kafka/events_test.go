package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/savoro/catering-auth/internal/core/domain"
	"github.com/savoro/catering-auth/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T, asyncProducer sarama.AsyncProducer) *EventPublisher {
	t.Helper()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "catering",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	return NewEventPublisher(producer, config.AppSettings{
		Name: "catering-auth",
		Env:  "test",
	}, zaptest.NewLogger(t))
}

func TestPublishLoginSucceededMasksIdentifiers(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	loginAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	event := domain.LoginSucceededEvent{
		EventID:    "event-123",
		AccountID:  42,
		Email:      "jordan.smith@example.com",
		RememberMe: true,
		IPAddress:  "203.0.113.7",
		LoginAt:    loginAt,
		Metadata:   map[string]any{"source": "unit-test"},
	}

	if err := publisher.PublishLoginSucceeded(context.Background(), event); err != nil {
		t.Fatalf("PublishLoginSucceeded returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "catering.auth.login" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if got := envelope["event_type"]; got != "auth.login" {
			t.Fatalf("unexpected event_type: %v", got)
		}

		accountID, ok := envelope["account_id"].(float64)
		if !ok || int64(accountID) != event.AccountID {
			t.Fatalf("unexpected account_id: %v", envelope["account_id"])
		}

		timestamp, ok := envelope["timestamp"].(string)
		if !ok {
			t.Fatalf("timestamp not a string: %T", envelope["timestamp"])
		}
		if timestamp != loginAt.Format(time.RFC3339Nano) {
			t.Fatalf("unexpected timestamp: %s", timestamp)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got := payload["email"]; got != "jor***@example.com" {
			t.Fatalf("email not masked: %v", got)
		}

		if got := payload["ip_address"]; got != "203.0.*.*" {
			t.Fatalf("ip not masked: %v", got)
		}

		if got := payload["remember_me"]; got != true {
			t.Fatalf("unexpected remember_me: %v", got)
		}

		envelopeMetadata, ok := envelope["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("envelope metadata not a map: %T", envelope["metadata"])
		}

		if envelopeMetadata["service"] != "catering-auth" {
			t.Fatalf("unexpected metadata service: %v", envelopeMetadata["service"])
		}

		if envelopeMetadata["environment"] != "test" {
			t.Fatalf("unexpected metadata environment: %v", envelopeMetadata["environment"])
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
}

func TestPublishAccountRegistered(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	registeredAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	event := domain.AccountRegisteredEvent{
		EventID:      "evt-001",
		AccountID:    7,
		Email:        "casey@example.com",
		Phone:        "+15551234567",
		RegisteredAt: registeredAt,
		Metadata:     map[string]any{"source": "unit-test"},
	}

	if err := publisher.PublishAccountRegistered(context.Background(), event); err != nil {
		t.Fatalf("PublishAccountRegistered returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "catering.account.registered" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got := payload["email"]; got != "cas***@example.com" {
			t.Fatalf("email not masked: %v", got)
		}

		phone, _ := payload["phone"].(string)
		if phone == event.Phone || phone == "" {
			t.Fatalf("phone not masked: %q", phone)
		}

		metadata, ok := payload["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("payload metadata not a map: %T", payload["metadata"])
		}

		if metadata["source"] != "unit-test" {
			t.Fatalf("metadata did not round-trip: %v", metadata)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
}
