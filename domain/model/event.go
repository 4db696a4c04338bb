package model

import (
	"context"
	"fmt"
	"time"
)

// Event actions published by the orchestrators.
const (
	EventActionCreated   = "created"
	EventActionUpdated   = "updated"
	EventActionDeleted   = "deleted"
	EventActionTagged    = "tagged"
	EventActionStarted   = "started"
	EventActionCompleted = "completed"
	EventActionCancelled = "cancelled"
)

// Event is one lifecycle change published toward external subscribers.
// Downstream consumers filter by credential and region through the topic.
type Event struct {
	ResourceKind string // "cluster", "nodepool", "vpc", "subnet", "security_group", "bulk_operation"
	Action       string
	ResourceID   string
	Status       string
	Provider     ProviderKind
	CredentialID string
	Region       string
	Timestamp    time.Time
	Data         map[string]any
}

// Type is the event type string, e.g. "cluster.created".
func (e *Event) Type() string {
	return e.ResourceKind + "." + e.Action
}

// Topic is the dotted routing key:
// strato.{provider}.{credentialID}.{region}.{resourceKind}.{action}.
// NATS-style wildcard subscriptions can filter on any segment.
func (e *Event) Topic() string {
	return fmt.Sprintf("strato.%s.%s.%s.%s.%s",
		e.Provider, e.CredentialID, e.Region, e.ResourceKind, e.Action)
}

// NewEvent fills the scope fields and timestamp.
func NewEvent(scope ProviderScope, resourceKind, action, resourceID, status string) *Event {
	return &Event{
		ResourceKind: resourceKind,
		Action:       action,
		ResourceID:   resourceID,
		Status:       status,
		Provider:     scope.Provider,
		CredentialID: scope.CredentialID,
		Region:       scope.Region,
		Timestamp:    time.Now().UTC(),
	}
}

// Notifier publishes events to an external pub/sub channel. Implementations
// must be safe for concurrent use. Publishing is best-effort from the
// orchestrators' point of view: a publish failure is logged and never fails
// the operation that produced the event.
type Notifier interface {
	Publish(ctx context.Context, ev *Event) error
}
