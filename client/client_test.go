package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-crash/config"
	"github.com/telhawk-systems/telhawk-crash/protocol"
)

type recordingTransport struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     error
	closed   bool
}

func (t *recordingTransport) Send(_ context.Context, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail != nil {
		return t.fail
	}
	t.payloads = append(t.payloads, payload)
	return nil
}

func (t *recordingTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func newTestClient(t *testing.T, tr *recordingTransport) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.Release = "collector@2.1.0"
	cfg.Environment = "staging"
	c, err := NewWithTransport(cfg, tr)
	require.NoError(t, err)
	return c
}

func TestNew_FailsFast(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = NewWithTransport(config.Default(), nil)
	require.Error(t, err)

	_, err = NewWithTransport(nil, &recordingTransport{})
	require.Error(t, err)
}

func TestCaptureException(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)

	id, err := c.CaptureException(context.Background(), fmt.Errorf("read config: %w", errors.New("permission denied")))
	require.NoError(t, err)
	assert.NotEqual(t, protocol.EventID{}, id)

	require.Len(t, tr.payloads, 1)
	event, err := protocol.Unmarshal(tr.payloads[0])
	require.NoError(t, err)

	require.NotNil(t, event.ID)
	assert.Equal(t, id.String(), event.ID.String())
	assert.NotNil(t, event.Timestamp)
	assert.Equal(t, protocol.LevelError, event.Level)
	assert.Equal(t, "collector@2.1.0", event.Release)
	assert.Equal(t, "staging", event.Environment)
	require.Len(t, event.Exceptions, 2)
	assert.Equal(t, "permission denied", event.Exceptions[0].Value)
	assert.NotEmpty(t, event.Threads)
}

func TestCaptureException_NilError(t *testing.T) {
	c := newTestClient(t, &recordingTransport{})
	_, err := c.CaptureException(context.Background(), nil)
	require.Error(t, err)
}

func TestCaptureMessage(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)

	_, err := c.CaptureMessage(context.Background(), "spool at 90% capacity", protocol.LevelWarning)
	require.NoError(t, err)

	event, err := protocol.Unmarshal(tr.payloads[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.LevelWarning, event.Level)
	require.Len(t, event.Exceptions, 1)
	assert.Equal(t, "spool at 90% capacity", event.Exceptions[0].Value)
}

func TestCaptureMessage_DefaultLevel(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)

	_, err := c.CaptureMessage(context.Background(), "hello", "")
	require.NoError(t, err)

	event, err := protocol.Unmarshal(tr.payloads[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.LevelInfo, event.Level)
}

func TestCaptureEvent_KeepsPresetFields(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)

	id, err := protocol.ParseEventID("424a038a04f44b9cb898b86f45578ea9")
	require.NoError(t, err)
	event := &protocol.Event{
		ID:          &id,
		Release:     "pinned@0.0.1",
		Environment: "canary",
		Threads:     []protocol.Thread{{ID: 3, Name: "goroutine 3 [syscall]"}},
	}

	got, err := c.CaptureEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	decoded, err := protocol.Unmarshal(tr.payloads[0])
	require.NoError(t, err)
	assert.Equal(t, "pinned@0.0.1", decoded.Release)
	assert.Equal(t, "canary", decoded.Environment)
	require.Len(t, decoded.Threads, 1)
	assert.Equal(t, int64(3), decoded.Threads[0].ID)
}

func TestCaptureEvent_TransportFailure(t *testing.T) {
	tr := &recordingTransport{fail: errors.New("broker down")}
	c := newTestClient(t, tr)

	_, err := c.CaptureEvent(context.Background(), protocol.NewEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestCaptureEvent_Nil(t *testing.T) {
	c := newTestClient(t, &recordingTransport{})
	_, err := c.CaptureEvent(context.Background(), nil)
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)
	require.NoError(t, c.Close())
	assert.True(t, tr.closed)
}
