package processor

import (
	"errors"

	"github.com/telhawk-systems/telhawk-crash/config"
	"github.com/telhawk-systems/telhawk-crash/protocol"
)

// Processor fills the gaps of a captured event before serialization.
// Construction rejects missing collaborators; Process itself never fails.
type Processor struct {
	cfg        *config.Config
	threads    ThreadSnapshotter
	exceptions *ExceptionFactory
}

// New builds a processor with the default collaborators: a goroutine
// snapshotter and an exception factory sharing one stack trace factory
// driven by the configured in-app prefixes.
func New(cfg *config.Config) (*Processor, error) {
	if cfg == nil {
		return nil, errors.New("processor: config is required")
	}
	stacktraces := NewStackTraceFactory(cfg.InApp.Includes, cfg.InApp.Excludes)
	return NewWithCollaborators(cfg, NewGoroutineSnapshotter(stacktraces), NewExceptionFactory(stacktraces))
}

// NewWithCollaborators builds a processor with explicit collaborators.
// All of them are required.
func NewWithCollaborators(cfg *config.Config, threads ThreadSnapshotter, exceptions *ExceptionFactory) (*Processor, error) {
	if cfg == nil {
		return nil, errors.New("processor: config is required")
	}
	if threads == nil {
		return nil, errors.New("processor: thread snapshotter is required")
	}
	if exceptions == nil {
		return nil, errors.New("processor: exception factory is required")
	}
	return &Processor{cfg: cfg, threads: threads, exceptions: exceptions}, nil
}

// Process enriches the event in place and returns it.
//
// Threads, release, and environment are filled only when unset. Exception
// conversion runs whenever a captured error is present and replaces any
// pre-existing exception list.
func (p *Processor) Process(event *protocol.Event) *protocol.Event {
	if event == nil {
		return nil
	}

	if event.Threads == nil {
		event.Threads = p.threads.CurrentThreads()
	}

	if event.Release == "" {
		event.Release = p.cfg.Release
	}
	if event.Environment == "" {
		event.Environment = p.cfg.Environment
	}

	if err := event.CapturedError(); err != nil {
		event.Exceptions = p.exceptions.FromError(err)
	}

	return event
}
