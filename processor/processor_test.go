package processor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-crash/config"
	"github.com/telhawk-systems/telhawk-crash/protocol"
)

type stubSnapshotter struct {
	threads []protocol.Thread
	calls   int
}

func (s *stubSnapshotter) CurrentThreads() []protocol.Thread {
	s.calls++
	return s.threads
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Release = "collector@2.1.0"
	cfg.Environment = "staging"
	return cfg
}

func newTestProcessor(t *testing.T, snap ThreadSnapshotter) *Processor {
	t.Helper()
	p, err := NewWithCollaborators(testConfig(), snap, NewExceptionFactory(NewStackTraceFactory(nil, nil)))
	require.NoError(t, err)
	return p
}

func TestNew_RejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestNewWithCollaborators_RejectsNils(t *testing.T) {
	cfg := testConfig()
	snap := &stubSnapshotter{}
	exceptions := NewExceptionFactory(NewStackTraceFactory(nil, nil))

	_, err := NewWithCollaborators(nil, snap, exceptions)
	assert.Error(t, err)
	_, err = NewWithCollaborators(cfg, nil, exceptions)
	assert.Error(t, err)
	_, err = NewWithCollaborators(cfg, snap, nil)
	assert.Error(t, err)
	_, err = NewWithCollaborators(cfg, snap, exceptions)
	assert.NoError(t, err)
}

func TestProcess_FillsThreadsWhenUnset(t *testing.T) {
	snap := &stubSnapshotter{threads: []protocol.Thread{{ID: 7, Name: "goroutine 7 [running]"}}}
	p := newTestProcessor(t, snap)

	e := p.Process(&protocol.Event{})
	require.Len(t, e.Threads, 1)
	assert.Equal(t, int64(7), e.Threads[0].ID)
	assert.Equal(t, 1, snap.calls)
}

func TestProcess_LeavesExistingThreadsUntouched(t *testing.T) {
	snap := &stubSnapshotter{threads: []protocol.Thread{{ID: 7}}}
	p := newTestProcessor(t, snap)

	existing := []protocol.Thread{{ID: 1, Name: "goroutine 1 [running]", Main: true}}
	e := p.Process(&protocol.Event{Threads: existing})
	assert.Equal(t, existing, e.Threads)
	assert.Equal(t, 0, snap.calls)
}

func TestProcess_FillsReleaseAndEnvironmentDefaults(t *testing.T) {
	p := newTestProcessor(t, &stubSnapshotter{})

	e := p.Process(&protocol.Event{})
	assert.Equal(t, "collector@2.1.0", e.Release)
	assert.Equal(t, "staging", e.Environment)
}

func TestProcess_DoesNotOverwriteReleaseOrEnvironment(t *testing.T) {
	p := newTestProcessor(t, &stubSnapshotter{})

	e := p.Process(&protocol.Event{Release: "other@9.9.9", Environment: "qa"})
	assert.Equal(t, "other@9.9.9", e.Release)
	assert.Equal(t, "qa", e.Environment)
}

func TestProcess_ConvertsCapturedErrorChain(t *testing.T) {
	p := newTestProcessor(t, &stubSnapshotter{})

	root := errors.New("disk full")
	wrapped := fmt.Errorf("flush spool: %w", root)

	e := &protocol.Event{}
	e.SetCapturedError(wrapped)
	p.Process(e)

	require.Len(t, e.Exceptions, 2)
	// innermost cause first, captured error last
	assert.Equal(t, "disk full", e.Exceptions[0].Value)
	assert.Equal(t, "flush spool: disk full", e.Exceptions[1].Value)
	assert.NotEmpty(t, e.Exceptions[1].Stacktrace, "captured error carries the capture-time stack")
	assert.Empty(t, e.Exceptions[0].Stacktrace)
}

func TestProcess_CapturedErrorOverwritesExceptions(t *testing.T) {
	p := newTestProcessor(t, &stubSnapshotter{})

	e := &protocol.Event{Exceptions: []protocol.Exception{{Type: "stale", Value: "old"}}}
	e.SetCapturedError(errors.New("fresh"))
	p.Process(e)

	require.Len(t, e.Exceptions, 1)
	assert.Equal(t, "fresh", e.Exceptions[0].Value)
}

func TestProcess_NoCapturedErrorKeepsExceptions(t *testing.T) {
	p := newTestProcessor(t, &stubSnapshotter{})

	existing := []protocol.Exception{{Type: "kept", Value: "as-is"}}
	e := p.Process(&protocol.Event{Exceptions: existing})
	assert.Equal(t, existing, e.Exceptions)
}

func TestProcess_NilEvent(t *testing.T) {
	p := newTestProcessor(t, &stubSnapshotter{})
	assert.Nil(t, p.Process(nil))
}

func TestProcess_ReturnsSameEvent(t *testing.T) {
	p := newTestProcessor(t, &stubSnapshotter{})
	e := &protocol.Event{}
	assert.Same(t, e, p.Process(e))
}
