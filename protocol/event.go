package protocol

import "time"

// Event is one reported incident plus its context, the unit of
// transmission to the collection endpoint. The zero Event has every field
// unset; unset fields are omitted from the wire form entirely.
//
// The captured error is transient. It feeds exception conversion during
// processing and never appears in the serialized document.
type Event struct {
	ID          *EventID
	Timestamp   *Timestamp
	Release     string
	Environment string
	Level       Level
	Exceptions  []Exception
	Threads     []Thread
	User        *User
	Contexts    *Map
	Unknown     *Map

	capturedErr error
}

// NewEvent returns an event stamped with a fresh id and the current time.
func NewEvent() *Event {
	id := NewEventID()
	ts := NewTimestamp(time.Now())
	return &Event{ID: &id, Timestamp: &ts}
}

// SetCapturedError attaches the raw error the event was created for.
func (e *Event) SetCapturedError(err error) {
	e.capturedErr = err
}

// CapturedError returns the raw error attached at capture time, if any.
func (e *Event) CapturedError() error {
	return e.capturedErr
}

// SetUnknown stores an unrecognized wire field. It is kept verbatim and
// replayed on serialization, never interpreted.
func (e *Event) SetUnknown(key string, v Value) {
	if e.Unknown == nil {
		e.Unknown = NewMap()
	}
	e.Unknown.Set(key, v)
}

// SetContext stores a named context object.
func (e *Event) SetContext(name string, v Value) {
	if e.Contexts == nil {
		e.Contexts = NewMap()
	}
	e.Contexts.Set(name, v)
}

// Exception is one entry of a flattened error chain.
type Exception struct {
	// Type is the error's type name, e.g. "*fs.PathError".
	Type string
	// Value is the error message.
	Value string
	// Module is the package the error type belongs to.
	Module string
	// Stacktrace holds the frames, callee-last.
	Stacktrace []Frame
}

// Thread is a snapshot of one live thread of execution at processing time.
type Thread struct {
	ID         int64
	Name       string
	Crashed    bool
	Current    bool
	Main       bool
	Stacktrace []Frame
}

// Frame is one stack frame. InApp marks frames belonging to the
// application's own code as opposed to library or runtime code.
type Frame struct {
	Function string
	Module   string
	Filename string
	AbsPath  string
	Lineno   int64
	InApp    bool
}

// User identifies who was affected by the event.
type User struct {
	ID        string
	Username  string
	Email     string
	IPAddress string
}

func (u *User) empty() bool {
	return u == nil || (u.ID == "" && u.Username == "" && u.Email == "" && u.IPAddress == "")
}
