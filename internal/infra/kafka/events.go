package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/config"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	AccountID string            `json:"account_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, accountID string, ts time.Time, payload any) error {
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
		Metadata: map[string]string{
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
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAccountRegistered publishes auth.account.registered events.
func (p *EventPublisher) PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error {
	payload := struct {
		AccountID    string    `json:"account_id"`
		Email        string    `json:"email"`
		Role         string    `json:"role"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		AccountID:    event.AccountID,
		Email:        logger.MaskEmail(event.Email),
		Role:         string(event.Role),
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.account.registered", event.AccountID, event.RegisteredAt, payload)
}

// PublishPasswordReset publishes auth.account.password_reset events.
func (p *EventPublisher) PublishPasswordReset(ctx context.Context, event domain.PasswordResetEvent) error {
	payload := struct {
		AccountID     string    `json:"account_id"`
		ResetAt       time.Time `json:"reset_at"`
		TokensRevoked int64     `json:"tokens_revoked"`
	}{
		AccountID:     event.AccountID,
		ResetAt:       event.ResetAt.UTC(),
		TokensRevoked: event.TokensRevoked,
	}

	return p.publish(ctx, event.EventID, "auth.account.password_reset", event.AccountID, event.ResetAt, payload)
}

// PublishAccountBlocked publishes auth.account.blocked events.
func (p *EventPublisher) PublishAccountBlocked(ctx context.Context, event domain.AccountBlockedEvent) error {
	payload := struct {
		AccountID     string    `json:"account_id"`
		Blocked       bool      `json:"blocked"`
		Reason        string    `json:"reason,omitempty"`
		OccurredAt    time.Time `json:"occurred_at"`
		TokensRevoked int64     `json:"tokens_revoked"`
	}{
		AccountID:     event.AccountID,
		Blocked:       event.Blocked,
		Reason:        event.Reason,
		OccurredAt:    event.OccurredAt.UTC(),
		TokensRevoked: event.TokensRevoked,
	}

	return p.publish(ctx, event.EventID, "auth.account.blocked", event.AccountID, event.OccurredAt, payload)
}
