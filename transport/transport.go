// Package transport delivers serialized events to the collection service.
// It is the collaborator downstream of the serializer; retry, backoff, and
// spooling are out of scope and belong to the service side.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/telhawk-systems/telhawk-crash/config"
)

// Transport sends one serialized event document. Implementations must be
// safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, payload []byte) error
	Close() error
}

// New builds the transport selected by the configuration.
func New(cfg *config.Config) (Transport, error) {
	if cfg == nil {
		return nil, errors.New("transport: config is required")
	}
	switch cfg.Transport.Kind {
	case config.TransportHTTP:
		return NewHTTP(cfg.Transport.Endpoint, cfg.Transport.AuthToken, cfg.Transport.Timeout)
	case config.TransportNATS:
		return NewNATS(cfg.Transport.NATS.URL, cfg.Transport.NATS.Subject, cfg.Transport.Timeout)
	}
	return nil, fmt.Errorf("transport: unknown kind %q", cfg.Transport.Kind)
}
