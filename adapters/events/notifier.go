package events

import (
	"context"

	"github.com/stratokube/strato/domain/model"
)

// Nop is a Notifier that drops every event.
type Nop struct{}

// NewNop returns a no-op notifier.
func NewNop() *Nop { return &Nop{} }

// Publish discards ev.
func (*Nop) Publish(context.Context, *model.Event) error { return nil }

var _ model.Notifier = (*Nop)(nil)
