package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSTransport publishes serialized events to a NATS subject, for
// deployments where the collector consumes events off the message bus
// instead of exposing an HTTP store endpoint.
type NATSTransport struct {
	conn    *nats.Conn
	subject string
}

// NewNATS connects to the broker and builds a NATS transport.
func NewNATS(url, subject string, timeout time.Duration) (*NATSTransport, error) {
	if url == "" {
		return nil, errors.New("transport: nats url is required")
	}
	if subject == "" {
		return nil, errors.New("transport: nats subject is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	conn, err := nats.Connect(url,
		nats.Name("telhawk-crash"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSTransport{conn: conn, subject: subject}, nil
}

// Send publishes one event document and flushes before ctx expires.
func (t *NATSTransport) Send(ctx context.Context, payload []byte) error {
	if err := t.conn.Publish(t.subject, payload); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	if err := t.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush event: %w", err)
	}
	return nil
}

// Close drains the connection.
func (t *NATSTransport) Close() error {
	return t.conn.Drain()
}
