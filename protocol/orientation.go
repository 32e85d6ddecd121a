package protocol

import "strings"

// Orientation is the device screen orientation reported in the device
// context.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

var orientationByName = map[string]Orientation{
	"portrait":  OrientationPortrait,
	"landscape": OrientationLandscape,
}

// ParseOrientation maps a wire string to an Orientation, case-insensitively.
func ParseOrientation(s string) (Orientation, bool) {
	o, ok := orientationByName[strings.ToLower(s)]
	return o, ok
}

// String returns the lowercase wire form.
func (o Orientation) String() string { return string(o) }

// Valid reports whether o is one of the defined orientations.
func (o Orientation) Valid() bool {
	_, ok := orientationByName[string(o)]
	return ok
}
