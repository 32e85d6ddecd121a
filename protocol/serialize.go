package protocol

import (
	"bytes"
	"errors"
	"fmt"
)

// Wire field names. These are a compatibility boundary with the collection
// endpoint and must not change.
const (
	fieldEventID     = "event_id"
	fieldTimestamp   = "timestamp"
	fieldRelease     = "release"
	fieldEnvironment = "environment"
	fieldLevel       = "level"
	fieldException   = "exception"
	fieldThreads     = "threads"
	fieldUser        = "user"
	fieldContexts    = "contexts"
	fieldUnknown     = "unknown"

	fieldValues = "values"
)

// Marshal serializes the event as a single-line JSON object. Fields that
// are unset or empty are omitted entirely; the endpoint treats an emitted
// null and an absent field differently, so no nulls are written. Top-level
// keys appear in a fixed order.
func Marshal(e *Event) ([]byte, error) {
	if e == nil {
		return nil, errors.New("protocol: cannot marshal nil event")
	}

	var buf bytes.Buffer
	w := objectWriter{buf: &buf}
	buf.WriteByte('{')

	if e.ID != nil {
		w.key(fieldEventID)
		writeJSONString(&buf, e.ID.String())
	}
	if e.Timestamp != nil {
		w.key(fieldTimestamp)
		writeJSONString(&buf, e.Timestamp.String())
	}
	if e.Release != "" {
		w.key(fieldRelease)
		writeJSONString(&buf, e.Release)
	}
	if e.Environment != "" {
		w.key(fieldEnvironment)
		writeJSONString(&buf, e.Environment)
	}
	if e.Level != "" {
		w.key(fieldLevel)
		writeJSONString(&buf, e.Level.String())
	}
	if len(e.Exceptions) > 0 {
		w.key(fieldException)
		exceptionsValue(e.Exceptions).append(&buf)
	}
	if len(e.Threads) > 0 {
		w.key(fieldThreads)
		threadsValue(e.Threads).append(&buf)
	}
	if !e.User.empty() {
		w.key(fieldUser)
		userValue(e.User).append(&buf)
	}
	if e.Contexts.Len() > 0 {
		w.key(fieldContexts)
		MapValue(e.Contexts).append(&buf)
	}
	if e.Unknown.Len() > 0 {
		w.key(fieldUnknown)
		MapValue(e.Unknown).append(&buf)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Unmarshal parses a wire document into a fresh Event. The document is
// parsed generically first, then known fields are populated from it.
//
// Decoding is lenient about content: an explicit null anywhere leaves the
// corresponding field unset, and a known field holding an unexpected shape
// is skipped rather than rejected. Top-level keys the schema does not
// model are swept verbatim into the event's Unknown mapping. Only an
// unparseable document is an error.
func Unmarshal(data []byte) (*Event, error) {
	root, err := DecodeValue(data)
	if err != nil {
		return nil, fmt.Errorf("protocol: decode event: %w", err)
	}
	if root.Kind() != KindMap {
		return nil, errors.New("protocol: event document is not an object")
	}

	e := &Event{}
	for _, key := range root.Map().Keys() {
		v, _ := root.Map().Get(key)
		switch key {
		case fieldEventID:
			if v.Kind() == KindString {
				if id, err := ParseEventID(v.Str()); err == nil {
					e.ID = &id
				}
			}
		case fieldTimestamp:
			if v.Kind() == KindString {
				if ts, err := ParseTimestamp(v.Str()); err == nil {
					e.Timestamp = &ts
				}
			}
		case fieldRelease:
			if v.Kind() == KindString {
				e.Release = v.Str()
			}
		case fieldEnvironment:
			if v.Kind() == KindString {
				e.Environment = v.Str()
			}
		case fieldLevel:
			if v.Kind() == KindString {
				if lvl, ok := ParseLevel(v.Str()); ok {
					e.Level = lvl
				}
			}
		case fieldException:
			e.Exceptions = decodeExceptions(v)
		case fieldThreads:
			e.Threads = decodeThreads(v)
		case fieldUser:
			if v.Kind() == KindMap {
				e.User = decodeUser(v.Map())
			}
		case fieldContexts:
			if v.Kind() == KindMap {
				e.Contexts = v.Map()
			}
		case fieldUnknown:
			if v.Kind() == KindMap {
				for _, k := range v.Map().Keys() {
					item, _ := v.Map().Get(k)
					e.SetUnknown(k, item)
				}
			}
		default:
			e.SetUnknown(key, v)
		}
	}
	return e, nil
}

// MarshalJSON implements json.Marshaler.
func (e *Event) MarshalJSON() ([]byte, error) {
	return Marshal(e)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Event) UnmarshalJSON(data []byte) error {
	decoded, err := Unmarshal(data)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}

// objectWriter tracks comma placement for a hand-written JSON object.
type objectWriter struct {
	buf *bytes.Buffer
	n   int
}

func (w *objectWriter) key(name string) {
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.n++
	writeJSONString(w.buf, name)
	w.buf.WriteByte(':')
}

// Exceptions and threads travel wrapped in a values envelope, matching
// what the ingestion endpoint expects: {"values":[...]}.

func exceptionsValue(exceptions []Exception) Value {
	items := make([]Value, len(exceptions))
	for i, x := range exceptions {
		m := NewMap()
		if x.Type != "" {
			m.Set("type", String(x.Type))
		}
		if x.Value != "" {
			m.Set("value", String(x.Value))
		}
		if x.Module != "" {
			m.Set("module", String(x.Module))
		}
		if len(x.Stacktrace) > 0 {
			m.Set("stacktrace", stacktraceValue(x.Stacktrace))
		}
		items[i] = MapValue(m)
	}
	wrapper := NewMap()
	wrapper.Set(fieldValues, List(items...))
	return MapValue(wrapper)
}

func threadsValue(threads []Thread) Value {
	items := make([]Value, len(threads))
	for i, t := range threads {
		m := NewMap()
		m.Set("id", Int(t.ID))
		if t.Name != "" {
			m.Set("name", String(t.Name))
		}
		if t.Crashed {
			m.Set("crashed", Bool(true))
		}
		if t.Current {
			m.Set("current", Bool(true))
		}
		if t.Main {
			m.Set("main", Bool(true))
		}
		if len(t.Stacktrace) > 0 {
			m.Set("stacktrace", stacktraceValue(t.Stacktrace))
		}
		items[i] = MapValue(m)
	}
	wrapper := NewMap()
	wrapper.Set(fieldValues, List(items...))
	return MapValue(wrapper)
}

func stacktraceValue(frames []Frame) Value {
	items := make([]Value, len(frames))
	for i, f := range frames {
		m := NewMap()
		if f.Function != "" {
			m.Set("function", String(f.Function))
		}
		if f.Module != "" {
			m.Set("module", String(f.Module))
		}
		if f.Filename != "" {
			m.Set("filename", String(f.Filename))
		}
		if f.AbsPath != "" {
			m.Set("abs_path", String(f.AbsPath))
		}
		if f.Lineno > 0 {
			m.Set("lineno", Int(f.Lineno))
		}
		m.Set("in_app", Bool(f.InApp))
		items[i] = MapValue(m)
	}
	m := NewMap()
	m.Set("frames", List(items...))
	return MapValue(m)
}

func userValue(u *User) Value {
	m := NewMap()
	if u.ID != "" {
		m.Set("id", String(u.ID))
	}
	if u.Username != "" {
		m.Set("username", String(u.Username))
	}
	if u.Email != "" {
		m.Set("email", String(u.Email))
	}
	if u.IPAddress != "" {
		m.Set("ip_address", String(u.IPAddress))
	}
	return MapValue(m)
}

func decodeExceptions(v Value) []Exception {
	var out []Exception
	for _, item := range decodeValuesEnvelope(v) {
		if item.Kind() != KindMap {
			continue
		}
		m := item.Map()
		out = append(out, Exception{
			Type:       stringField(m, "type"),
			Value:      stringField(m, "value"),
			Module:     stringField(m, "module"),
			Stacktrace: decodeStacktrace(m),
		})
	}
	return out
}

func decodeThreads(v Value) []Thread {
	var out []Thread
	for _, item := range decodeValuesEnvelope(v) {
		if item.Kind() != KindMap {
			continue
		}
		m := item.Map()
		out = append(out, Thread{
			ID:         intField(m, "id"),
			Name:       stringField(m, "name"),
			Crashed:    boolField(m, "crashed"),
			Current:    boolField(m, "current"),
			Main:       boolField(m, "main"),
			Stacktrace: decodeStacktrace(m),
		})
	}
	return out
}

func decodeValuesEnvelope(v Value) []Value {
	if v.Kind() != KindMap {
		return nil
	}
	list, ok := v.Map().Get(fieldValues)
	if !ok || list.Kind() != KindList {
		return nil
	}
	return list.ListItems()
}

func decodeStacktrace(m *Map) []Frame {
	st, ok := m.Get("stacktrace")
	if !ok || st.Kind() != KindMap {
		return nil
	}
	framesVal, ok := st.Map().Get("frames")
	if !ok || framesVal.Kind() != KindList {
		return nil
	}
	var frames []Frame
	for _, item := range framesVal.ListItems() {
		if item.Kind() != KindMap {
			continue
		}
		fm := item.Map()
		frames = append(frames, Frame{
			Function: stringField(fm, "function"),
			Module:   stringField(fm, "module"),
			Filename: stringField(fm, "filename"),
			AbsPath:  stringField(fm, "abs_path"),
			Lineno:   intField(fm, "lineno"),
			InApp:    boolField(fm, "in_app"),
		})
	}
	return frames
}

func decodeUser(m *Map) *User {
	u := &User{
		ID:        stringField(m, "id"),
		Username:  stringField(m, "username"),
		Email:     stringField(m, "email"),
		IPAddress: stringField(m, "ip_address"),
	}
	if u.empty() {
		return nil
	}
	return u
}

func stringField(m *Map, key string) string {
	if v, ok := m.Get(key); ok && v.Kind() == KindString {
		return v.Str()
	}
	return ""
}

func intField(m *Map, key string) int64 {
	if v, ok := m.Get(key); ok && v.Kind() == KindInt {
		return v.Int()
	}
	return 0
}

func boolField(m *Map, key string) bool {
	if v, ok := m.Get(key); ok && v.Kind() == KindBool {
		return v.Bool()
	}
	return false
}
