package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gatekeeper/contexts/access-control/gateway-service/ports"
	"gatekeeper/internal/platform/messaging"
)

func TestPublishGrantAuthorizedReachesSubscribers(t *testing.T) {
	bus := messaging.NewBus(nil)
	sub := bus.Subscribe(TopicGrantAuthorized, 1)
	publisher := NewPublisher(bus, "gatekeeper", nil)

	grantedAt := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	err := publisher.PublishGrantAuthorized(context.Background(), ports.GrantAuthorizedEvent{
		GrantID:      "grant-1",
		IdentityName: "bob",
		Address:      "9.9.9.9",
		GrantedAt:    grantedAt,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case envelope := <-sub:
		if envelope.EventType != TopicGrantAuthorized {
			t.Fatalf("unexpected event type %q", envelope.EventType)
		}
		if envelope.SourceService != "gatekeeper" {
			t.Fatalf("unexpected source %q", envelope.SourceService)
		}
		if envelope.PartitionKey != "9.9.9.9" {
			t.Fatalf("unexpected partition key %q", envelope.PartitionKey)
		}
		if envelope.EventID == "" {
			t.Fatalf("expected generated event id")
		}

		var payload grantAuthorizedPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.GrantID != "grant-1" || payload.IdentityName != "bob" ||
			payload.Address != "9.9.9.9" || !payload.GrantedAt.Equal(grantedAt) {
			t.Fatalf("unexpected payload %+v", payload)
		}
	default:
		t.Fatalf("expected envelope on subscriber channel")
	}
}
