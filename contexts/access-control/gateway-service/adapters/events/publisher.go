package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gatekeeper/contexts/access-control/gateway-service/ports"
	contractsv1 "gatekeeper/contracts/gen/events/v1"

	"github.com/google/uuid"
)

// TopicGrantAuthorized carries grant lifecycle events for operator tooling.
const TopicGrantAuthorized = "access-control.grant.authorized"

// Bus is the platform event bus surface the publisher needs.
type Bus interface {
	Publish(ctx context.Context, topic string, event contractsv1.Envelope) error
}

// Publisher wraps grants into the canonical event envelope and hands them
// to the platform bus.
type Publisher struct {
	bus    Bus
	source string
	logger *slog.Logger
}

func NewPublisher(bus Bus, sourceService string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		bus:    bus,
		source: sourceService,
		logger: logger,
	}
}

type grantAuthorizedPayload struct {
	GrantID      string    `json:"grant_id"`
	IdentityName string    `json:"identity_name"`
	Address      string    `json:"address"`
	GrantedAt    time.Time `json:"granted_at"`
}

func (p Publisher) PublishGrantAuthorized(ctx context.Context, event ports.GrantAuthorizedEvent) error {
	payload, err := json.Marshal(grantAuthorizedPayload{
		GrantID:      event.GrantID,
		IdentityName: event.IdentityName,
		Address:      event.Address,
		GrantedAt:    event.GrantedAt,
	})
	if err != nil {
		return err
	}

	envelope := contractsv1.Envelope{
		EventID:          uuid.NewString(),
		EventType:        TopicGrantAuthorized,
		OccurredAt:       event.GrantedAt,
		SourceService:    p.source,
		SchemaVersion:    1,
		PartitionKeyPath: "address",
		PartitionKey:     event.Address,
		Data:             payload,
	}
	if err := p.bus.Publish(ctx, TopicGrantAuthorized, envelope); err != nil {
		return err
	}

	p.logger.Info("grant authorized event published",
		"event", "gateway_grant_event_published",
		"module", "access-control/gateway-service",
		"layer", "adapter",
		"grant_id", event.GrantID,
		"identity_name", event.IdentityName,
		"address", event.Address,
	)
	return nil
}
