package protocol

import "strings"

// Level is the severity of an event.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

// levelByName is the explicit wire-string table. Spelling and case on the
// wire are controlled here, not derived from the constant names.
var levelByName = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warning": LevelWarning,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

// ParseLevel maps a wire string to a Level, case-insensitively. ok is
// false for unrecognized input.
func ParseLevel(s string) (Level, bool) {
	lvl, ok := levelByName[strings.ToLower(s)]
	return lvl, ok
}

// String returns the lowercase wire form.
func (l Level) String() string { return string(l) }

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	_, ok := levelByName[string(l)]
	return ok
}
