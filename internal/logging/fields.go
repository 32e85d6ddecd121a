package logging

import "log/slog"

// Common field names for consistent logging across the SDK.
const (
	FieldEventID     = "event_id"
	FieldLevel       = "level"
	FieldRelease     = "release"
	FieldEnvironment = "environment"
	FieldTransport   = "transport"
	FieldBytes       = "bytes"
	FieldError       = "error"
)

// EventID returns a slog attribute for an event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// EventLevel returns a slog attribute for an event severity level.
func EventLevel(level string) slog.Attr {
	return slog.String(FieldLevel, level)
}

// Release returns a slog attribute for the release.
func Release(release string) slog.Attr {
	return slog.String(FieldRelease, release)
}

// Environment returns a slog attribute for the environment.
func Environment(env string) slog.Attr {
	return slog.String(FieldEnvironment, env)
}

// Transport returns a slog attribute for the transport kind.
func Transport(kind string) slog.Attr {
	return slog.String(FieldTransport, kind)
}

// Bytes returns a slog attribute for a payload size.
func Bytes(n int) slog.Attr {
	return slog.Int(FieldBytes, n)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
