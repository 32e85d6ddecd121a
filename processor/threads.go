package processor

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/telhawk-systems/telhawk-crash/protocol"
)

// ThreadSnapshotter provides a snapshot of all live threads of execution.
// Implementations must be safe for concurrent use.
type ThreadSnapshotter interface {
	CurrentThreads() []protocol.Thread
}

// GoroutineSnapshotter captures all live goroutines via runtime.Stack and
// parses the dump into thread records.
type GoroutineSnapshotter struct {
	stacktraces *StackTraceFactory
}

// NewGoroutineSnapshotter builds a snapshotter that classifies frames with
// the given stack trace factory.
func NewGoroutineSnapshotter(stacktraces *StackTraceFactory) *GoroutineSnapshotter {
	return &GoroutineSnapshotter{stacktraces: stacktraces}
}

// CurrentThreads snapshots every live goroutine. The calling goroutine is
// flagged as current; goroutine 1 is flagged as main.
func (s *GoroutineSnapshotter) CurrentThreads() []protocol.Thread {
	current := currentGoroutineID()

	buf := make([]byte, 64<<10)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, len(buf)*2)
	}

	var threads []protocol.Thread
	for _, block := range strings.Split(string(buf), "\n\n") {
		if t, ok := s.parseGoroutine(block); ok {
			t.Current = t.ID == current
			t.Main = t.ID == 1
			threads = append(threads, t)
		}
	}
	return threads
}

// parseGoroutine parses one block of a runtime.Stack dump, e.g.
//
//	goroutine 19 [select]:
//	main.worker(0xc000026180)
//		/srv/app/worker.go:87 +0x11c
func (s *GoroutineSnapshotter) parseGoroutine(block string) (protocol.Thread, bool) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) == 0 {
		return protocol.Thread{}, false
	}

	id, state, ok := parseGoroutineHeader(lines[0])
	if !ok {
		return protocol.Thread{}, false
	}
	t := protocol.Thread{
		ID:   id,
		Name: fmt.Sprintf("goroutine %d [%s]", id, state),
	}

	var frames []protocol.Frame
	for i := 1; i+1 < len(lines); i += 2 {
		function, ok := parseFunctionLine(lines[i])
		if !ok {
			continue
		}
		file, line := parseLocationLine(lines[i+1])
		frames = append(frames, s.stacktraces.convert(function, file, line))
	}
	// runtime.Stack prints callee-first; the wire wants callee-last
	reverseFrames(frames)
	t.Stacktrace = frames
	return t, true
}

// parseGoroutineHeader parses "goroutine 19 [select]:".
func parseGoroutineHeader(line string) (id int64, state string, ok bool) {
	rest, found := strings.CutPrefix(line, "goroutine ")
	if !found {
		return 0, "", false
	}
	idStr, rest, found := strings.Cut(rest, " ")
	if !found {
		return 0, "", false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", false
	}
	state = strings.TrimSuffix(rest, ":")
	state = strings.TrimPrefix(state, "[")
	state = strings.TrimSuffix(state, "]")
	return id, state, true
}

// parseFunctionLine strips the argument list from a dump line such as
// "main.worker(0xc000026180)" or "created by main.spawn in goroutine 1".
func parseFunctionLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if rest, found := strings.CutPrefix(line, "created by "); found {
		name, _, _ := strings.Cut(rest, " in goroutine")
		return name, name != ""
	}
	if paren := strings.LastIndex(line, "("); paren > 0 {
		return line[:paren], true
	}
	return line, true
}

// parseLocationLine parses "\t/srv/app/worker.go:87 +0x11c".
func parseLocationLine(line string) (file string, lineNo int64) {
	loc := strings.TrimSpace(line)
	if sp := strings.Index(loc, " "); sp > 0 {
		loc = loc[:sp]
	}
	colon := strings.LastIndex(loc, ":")
	if colon < 0 {
		return loc, 0
	}
	n, err := strconv.ParseInt(loc[colon+1:], 10, 64)
	if err != nil {
		return loc, 0
	}
	return loc[:colon], n
}

// currentGoroutineID extracts the id from the calling goroutine's own
// stack header.
func currentGoroutineID() int64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	id, _, ok := parseGoroutineHeader(string(buf[:n]))
	if !ok {
		return 0
	}
	return id
}
