// Package processor enriches captured events before serialization: it
// fills in thread snapshots, release/environment defaults, and converts
// the captured error chain into structured exception records.
package processor

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/telhawk-systems/telhawk-crash/protocol"
)

// StackTraceFactory captures stack traces and classifies frames as in-app
// based on configured package prefixes.
type StackTraceFactory struct {
	inAppIncludes []string
	inAppExcludes []string
}

// NewStackTraceFactory builds a factory with the given in-app include and
// exclude package prefixes. Both lists may be empty.
func NewStackTraceFactory(includes, excludes []string) *StackTraceFactory {
	return &StackTraceFactory{inAppIncludes: includes, inAppExcludes: excludes}
}

// Capture records the calling goroutine's stack. skip counts additional
// frames to drop above the caller of Capture. Frames are ordered
// callee-last, matching the wire convention.
func (f *StackTraceFactory) Capture(skip int) []protocol.Frame {
	pcs := make([]uintptr, 128)
	// +2 drops runtime.Callers and Capture itself
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	var out []protocol.Frame
	iter := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := iter.Next()
		if frame.Function != "" {
			out = append(out, f.convert(frame.Function, frame.File, int64(frame.Line)))
		}
		if !more {
			break
		}
	}
	reverseFrames(out)
	return out
}

// convert turns a fully qualified function name plus location into a
// classified frame.
func (f *StackTraceFactory) convert(qualified, file string, line int64) protocol.Frame {
	module, function := splitQualifiedFunction(qualified)
	return protocol.Frame{
		Function: function,
		Module:   module,
		Filename: filepath.Base(file),
		AbsPath:  file,
		Lineno:   line,
		InApp:    f.InApp(module),
	}
}

// InApp classifies a package path. Includes win over excludes; packages
// matching neither list are treated as library code.
func (f *StackTraceFactory) InApp(module string) bool {
	for _, prefix := range f.inAppIncludes {
		if strings.HasPrefix(module, prefix) {
			return true
		}
	}
	for _, prefix := range f.inAppExcludes {
		if strings.HasPrefix(module, prefix) {
			return false
		}
	}
	return false
}

// splitQualifiedFunction splits "github.com/a/b.(*T).M" into the package
// path and the function part.
func splitQualifiedFunction(qualified string) (module, function string) {
	slash := strings.LastIndex(qualified, "/")
	dot := strings.Index(qualified[slash+1:], ".")
	if dot < 0 {
		return "", qualified
	}
	dot += slash + 1
	return qualified[:dot], qualified[dot+1:]
}

func reverseFrames(frames []protocol.Frame) {
	for i, j := 0, len(frames)-1; i < j; i, j = i+1, j-1 {
		frames[i], frames[j] = frames[j], frames[i]
	}
}
