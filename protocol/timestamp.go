package protocol

import (
	"fmt"
	"time"
)

// timestampFormat is the fixed wire format: UTC, whole seconds, literal Z.
const timestampFormat = "2006-01-02T15:04:05Z"

// Timestamp is an event timestamp. The wire form carries second precision
// only, so a Timestamp is always UTC and truncated to whole seconds.
type Timestamp time.Time

// NewTimestamp converts t to the wire precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC().Truncate(time.Second))
}

// ParseTimestamp parses the wire form. RFC 3339 input with fractional
// seconds or a numeric offset is tolerated and normalized.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("protocol: parse timestamp %q: %w", s, err)
	}
	return NewTimestamp(t), nil
}

// Time returns the timestamp as a time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Time(ts)
}

// String returns the fixed wire form, e.g. "2000-12-31T23:59:58Z".
func (ts Timestamp) String() string {
	return time.Time(ts).UTC().Format(timestampFormat)
}
