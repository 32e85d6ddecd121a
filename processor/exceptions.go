package processor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/telhawk-systems/telhawk-crash/protocol"
)

// ExceptionFactory flattens a captured error chain into exception records.
type ExceptionFactory struct {
	stacktraces *StackTraceFactory
}

// NewExceptionFactory builds a factory using the given stack trace factory
// for the capture-time stack.
func NewExceptionFactory(stacktraces *StackTraceFactory) *ExceptionFactory {
	return &ExceptionFactory{stacktraces: stacktraces}
}

// FromError unwraps err into an ordered exception list. Records run from
// the innermost cause to the outermost error, so the last entry is the one
// that was captured. Go errors carry no stack of their own, so the
// capture-time stack is attached to that last entry only.
func (f *ExceptionFactory) FromError(err error) []protocol.Exception {
	if err == nil {
		return nil
	}

	var chain []error
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, e)
	}

	out := make([]protocol.Exception, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, exceptionRecord(chain[i]))
	}
	if f.stacktraces != nil {
		out[len(out)-1].Stacktrace = f.stacktraces.Capture(1)
	}
	return out
}

func exceptionRecord(err error) protocol.Exception {
	typeName := fmt.Sprintf("%T", err)
	return protocol.Exception{
		Type:   typeName,
		Value:  err.Error(),
		Module: moduleOfType(typeName),
	}
}

// moduleOfType extracts the package part of a rendered type name, e.g.
// "*fs.PathError" -> "fs".
func moduleOfType(typeName string) string {
	name := strings.TrimLeft(typeName, "*")
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return ""
	}
	return name[:dot]
}
