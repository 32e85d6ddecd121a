package protocol

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// EventID is the opaque identifier of a crash event. On the wire it is
// rendered as 32 lowercase hex characters with the UUID dashes stripped.
type EventID uuid.UUID

// NewEventID returns a random EventID.
func NewEventID() EventID {
	return EventID(uuid.New())
}

// ParseEventID parses the wire form. Both the dashed UUID form and the
// 32-hex form are accepted.
func ParseEventID(s string) (EventID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return EventID{}, fmt.Errorf("protocol: parse event id %q: %w", s, err)
	}
	return EventID(u), nil
}

// String returns the canonical wire form: lowercase hex, no separators.
func (id EventID) String() string {
	u := uuid.UUID(id)
	return hex.EncodeToString(u[:])
}
