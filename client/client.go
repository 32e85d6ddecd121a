// Package client is the capture façade of the telhawk-crash SDK. It wires
// the enrichment processor, the serializer, and the transport into the
// path an application calls when something goes wrong.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/telhawk-systems/telhawk-crash/config"
	"github.com/telhawk-systems/telhawk-crash/internal/logging"
	"github.com/telhawk-systems/telhawk-crash/internal/metrics"
	"github.com/telhawk-systems/telhawk-crash/processor"
	"github.com/telhawk-systems/telhawk-crash/protocol"
	"github.com/telhawk-systems/telhawk-crash/transport"
)

// Client captures events and ships them to the collection service.
// It is safe for concurrent use as long as individual events are not
// shared between goroutines.
type Client struct {
	cfg       *config.Config
	processor *processor.Processor
	transport transport.Transport
	logger    *logging.Logger
}

// New builds a client from configuration, constructing the default
// processor and the configured transport.
func New(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("client: config is required")
	}
	tr, err := transport.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithTransport(cfg, tr)
}

// NewWithTransport builds a client around an existing transport.
func NewWithTransport(cfg *config.Config, tr transport.Transport) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("client: config is required")
	}
	if tr == nil {
		return nil, errors.New("client: transport is required")
	}
	proc, err := processor.New(cfg)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	return &Client{cfg: cfg, processor: proc, transport: tr, logger: logger}, nil
}

// CaptureException reports an error. The event level defaults to error.
func (c *Client) CaptureException(ctx context.Context, err error) (protocol.EventID, error) {
	if err == nil {
		return protocol.EventID{}, errors.New("client: cannot capture nil error")
	}
	event := protocol.NewEvent()
	event.Level = protocol.LevelError
	event.SetCapturedError(err)
	return c.CaptureEvent(ctx, event)
}

// CaptureMessage reports a plain message at the given level.
func (c *Client) CaptureMessage(ctx context.Context, message string, level protocol.Level) (protocol.EventID, error) {
	event := protocol.NewEvent()
	if level != "" {
		event.Level = level
	} else {
		event.Level = protocol.LevelInfo
	}
	event.Exceptions = []protocol.Exception{{Value: message}}
	return c.CaptureEvent(ctx, event)
}

// CaptureEvent enriches, serializes, and sends one event. The event's id
// and timestamp are assigned when unset.
func (c *Client) CaptureEvent(ctx context.Context, event *protocol.Event) (protocol.EventID, error) {
	if event == nil {
		return protocol.EventID{}, errors.New("client: cannot capture nil event")
	}
	if event.ID == nil {
		id := protocol.NewEventID()
		event.ID = &id
	}
	if event.Timestamp == nil {
		ts := protocol.NewTimestamp(time.Now())
		event.Timestamp = &ts
	}

	start := time.Now()
	c.processor.Process(event)
	metrics.ProcessingDuration.Observe(time.Since(start).Seconds())

	payload, err := protocol.Marshal(event)
	if err != nil {
		metrics.EventsCaptured.WithLabelValues("serialize_error").Inc()
		return *event.ID, err
	}
	metrics.EventBytesTotal.Add(float64(len(payload)))

	if err := c.transport.Send(ctx, payload); err != nil {
		metrics.EventsCaptured.WithLabelValues("transport_error").Inc()
		metrics.TransportErrors.WithLabelValues(c.cfg.Transport.Kind).Inc()
		c.logger.Error("failed to send event",
			logging.EventID(event.ID.String()),
			logging.Transport(c.cfg.Transport.Kind),
			logging.Error(err))
		return *event.ID, err
	}

	metrics.EventsCaptured.WithLabelValues("ok").Inc()
	c.logger.Debug("event sent",
		logging.EventID(event.ID.String()),
		logging.EventLevel(event.Level.String()),
		logging.Release(event.Release),
		logging.Bytes(len(payload)))
	return *event.ID, nil
}

// Close shuts the transport down.
func (c *Client) Close() error {
	return c.transport.Close()
}
