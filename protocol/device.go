package protocol

import "time"

// contexts["device"] is the only context shape this SDK types. Every other
// context entry stays a generic Value and round-trips untouched.
const deviceContextKey = "device"

const (
	deviceTimezoneKey    = "timezone"
	deviceOrientationKey = "orientation"
)

// Device is the typed view of the device context. Timezone is encoded as
// the IANA zone id (e.g. "Europe/Vienna"), orientation as its lowercase
// wire name.
type Device struct {
	Timezone    *time.Location
	Orientation Orientation
}

// DeviceContext interprets the "device" entry of the event's contexts.
// ok is false when no device context is present. Sub-fields that fail to
// parse (unknown zone, unknown orientation) are left unset, not errors.
func (e *Event) DeviceContext() (Device, bool) {
	if e.Contexts == nil {
		return Device{}, false
	}
	v, found := e.Contexts.Get(deviceContextKey)
	if !found || v.Kind() != KindMap {
		return Device{}, false
	}
	var d Device
	if tz, ok := v.Map().Get(deviceTimezoneKey); ok && tz.Kind() == KindString {
		if loc, err := time.LoadLocation(tz.Str()); err == nil {
			d.Timezone = loc
		}
	}
	if o, ok := v.Map().Get(deviceOrientationKey); ok && o.Kind() == KindString {
		if parsed, ok := ParseOrientation(o.Str()); ok {
			d.Orientation = parsed
		}
	}
	return d, true
}

// SetDeviceContext writes the typed device fields into the "device"
// context entry. Untyped sub-fields already stored there are preserved.
func (e *Event) SetDeviceContext(d Device) {
	var m *Map
	if e.Contexts != nil {
		if v, ok := e.Contexts.Get(deviceContextKey); ok && v.Kind() == KindMap {
			m = v.Map()
		}
	}
	if m == nil {
		m = NewMap()
	}
	if d.Timezone != nil {
		m.Set(deviceTimezoneKey, String(d.Timezone.String()))
	}
	if d.Orientation != "" {
		m.Set(deviceOrientationKey, String(d.Orientation.String()))
	}
	e.SetContext(deviceContextKey, MapValue(m))
}
