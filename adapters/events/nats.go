package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/stratokube/strato/domain/model"
)

// NATSNotifier publishes events to a NATS server. Events are published to
// their Topic() subject so consumers can use wildcard subscriptions like
// "strato.aws.>" or "strato.*.*.*.cluster.*".
type NATSNotifier struct {
	conn *nats.Conn
}

// ConnectNATS dials url and returns a notifier. The connection reconnects
// indefinitely in the background; publishes during an outage are buffered by
// the client, so a flaky broker degrades delivery rather than operations.
func ConnectNATS(url string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url,
		nats.Name("strato"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect NATS %s: %w", url, err)
	}
	return &NATSNotifier{conn: conn}, nil
}

// NewNATSNotifier wraps an existing connection.
func NewNATSNotifier(conn *nats.Conn) *NATSNotifier {
	return &NATSNotifier{conn: conn}
}

// Publish sends ev as JSON to its topic subject.
func (n *NATSNotifier) Publish(_ context.Context, ev *model.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.conn.Publish(ev.Topic(), data); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Topic(), err)
	}
	return nil
}

// Health reports whether the connection is currently up.
func (n *NATSNotifier) Health() error {
	if !n.conn.IsConnected() {
		return fmt.Errorf("NATS connection is not healthy")
	}
	return nil
}

// Close drains and closes the connection.
func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}

var _ model.Notifier = (*NATSNotifier)(nil)
