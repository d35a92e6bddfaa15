package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventPartnerApproved   EventType = "partner-approved"
	EventPartnerDisabled   EventType = "partner-disabled"
	EventAccountDeleted    EventType = "account-deleted"
	EventEnrollmentCreated EventType = "enrollment-created"
	EventSupportResolved   EventType = "support-resolved"
)

// MutationEvent is the msgpack payload published for every back-office
// mutation. Actor is the operator who performed the action.
type MutationEvent struct {
	Event      EventType `msgpack:"event"`
	TargetID   string    `msgpack:"target_id"`
	Actor      string    `msgpack:"actor"`
	OccurredAt time.Time `msgpack:"occurred_at"`
	Detail     string    `msgpack:"detail,omitempty"`
}
