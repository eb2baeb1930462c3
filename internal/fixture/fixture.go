package fixture

import (
	"errors"
	"fmt"
	"reflect"

	"lightpong/internal/dmx"
)

var (
	// ErrInvalidArgument covers a nil fixture, a bad start address or an
	// unknown enum value.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupported is returned when the layout lacks the attribute.
	ErrUnsupported = errors.New("attribute not supported by fixture layout")
)

// Fixture keeps a shadow of a fixture's channels and writes every change
// through to the shared universe. Nothing is transmitted here.
type Fixture struct {
	out    dmx.ChannelWriter
	layout Layout
	start  uint16
	shadow []uint8
}

// New places a fixture at start (1-based) and zeroes its channels.
// start must leave room for the whole layout inside the universe.
func New(out dmx.ChannelWriter, layout Layout, start uint16) (*Fixture, error) {
	n := layout.Channels()
	if isNil(out) || n == 0 {
		return nil, ErrInvalidArgument
	}
	if start < 1 || int(start) > dmx.UniverseSize-n+1 {
		return nil, fmt.Errorf("%w: start channel %d for %d-channel %s", ErrInvalidArgument, start, n, layout.Name)
	}
	f := &Fixture{
		out:    out,
		layout: layout,
		start:  start,
		shadow: make([]uint8, n),
	}
	if err := out.SetChannels(start, f.shadow); err != nil {
		return nil, err
	}
	return f, nil
}

// isNil also catches a nil pointer stored in the interface.
func isNil(out dmx.ChannelWriter) bool {
	if out == nil {
		return true
	}
	v := reflect.ValueOf(out)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Layout returns the channel layout.
func (f *Fixture) Layout() Layout { return f.layout }

// StartChannel returns the DMX address.
func (f *Fixture) StartChannel() uint16 { return f.start }

// Has reports whether the layout carries a.
func (f *Fixture) Has(a Attribute) bool {
	if f == nil {
		return false
	}
	_, ok := f.layout.Offset(a)
	return ok
}

// Value returns the shadow value of a.
func (f *Fixture) Value(a Attribute) (uint8, bool) {
	if f == nil {
		return 0, false
	}
	off, ok := f.layout.Offset(a)
	if !ok {
		return 0, false
	}
	return f.shadow[off], true
}

// Channels returns a copy of the shadow in channel order.
func (f *Fixture) Channels() []uint8 {
	if f == nil {
		return nil
	}
	return append([]uint8(nil), f.shadow...)
}

// Set writes a raw value to one attribute.
func (f *Fixture) Set(a Attribute, v uint8) error {
	if f == nil {
		return ErrInvalidArgument
	}
	off, ok := f.layout.Offset(a)
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrUnsupported, a, f.layout.Name)
	}
	f.shadow[off] = v
	return f.out.SetChannel(f.start+uint16(off), v)
}

// SetAll replaces every channel at once; len(vals) must match the layout.
func (f *Fixture) SetAll(vals []uint8) error {
	if f == nil || len(vals) != len(f.shadow) {
		return ErrInvalidArgument
	}
	copy(f.shadow, vals)
	return f.out.SetChannels(f.start, f.shadow)
}

func (f *Fixture) SetPan(pan uint8) error   { return f.Set(Pan, pan) }
func (f *Fixture) SetTilt(tilt uint8) error { return f.Set(Tilt, tilt) }

// SetPosition moves both axes; fine channels are left untouched.
func (f *Fixture) SetPosition(pan, tilt uint8) error {
	if err := f.Set(Pan, pan); err != nil {
		return err
	}
	return f.Set(Tilt, tilt)
}

// SetPosition16 moves with 16-bit resolution. Layouts without fine
// channels get the high byte only.
func (f *Fixture) SetPosition16(pan, tilt uint16) error {
	if err := f.SetPosition(uint8(pan>>8), uint8(tilt>>8)); err != nil {
		return err
	}
	if f.Has(PanFine) {
		if err := f.Set(PanFine, uint8(pan)); err != nil {
			return err
		}
	}
	if f.Has(TiltFine) {
		return f.Set(TiltFine, uint8(tilt))
	}
	return nil
}

func (f *Fixture) SetColor(c ColorWheel) error {
	v, err := c.Byte()
	if err != nil {
		return err
	}
	return f.Set(Color, v)
}

func (f *Fixture) SetRGB(r, g, b uint8) error {
	for _, x := range []struct {
		a Attribute
		v uint8
	}{{Red, r}, {Green, g}, {Blue, b}} {
		if err := f.Set(x.a, x.v); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fixture) SetColorMacro(m MacroColor) error {
	v, err := m.Byte()
	if err != nil {
		return err
	}
	return f.Set(ColorMacro, v)
}

func (f *Fixture) SetShutter(s ShutterMode) error {
	v, err := s.Byte()
	if err != nil {
		return err
	}
	return f.Set(Shutter, v)
}

func (f *Fixture) SetEffect(e EffectMode) error {
	v, err := e.Byte()
	if err != nil {
		return err
	}
	return f.Set(Effect, v)
}

func (f *Fixture) SetGobo(g GoboWheel) error {
	v, err := g.Byte()
	if err != nil {
		return err
	}
	return f.Set(Gobo, v)
}

// SetGoboRotation encodes mode and speed with EncodeGoboRotation.
func (f *Fixture) SetGoboRotation(mode RotationMode, speed uint8) error {
	v, err := EncodeGoboRotation(mode, speed)
	if err != nil {
		return err
	}
	return f.Set(GoboRotation, v)
}

func (f *Fixture) SetDimmer(v uint8) error { return f.Set(Dimmer, v) }
func (f *Fixture) SetSpeed(v uint8) error  { return f.Set(Speed, v) }

func (f *Fixture) SetSpecial(s SpecialFunction) error {
	v, err := s.Byte()
	if err != nil {
		return err
	}
	return f.Set(Special, v)
}

// SetIntensity drives the dimmer, or the shutter on layouts without one
// (any non-zero level opens it).
func (f *Fixture) SetIntensity(v uint8) error {
	if f.Has(Dimmer) {
		return f.SetDimmer(v)
	}
	if v == 0 {
		return f.SetShutter(ShutterBlackout)
	}
	return f.SetShutter(ShutterOpen)
}

// Off centers the head and blacks it out.
func (f *Fixture) Off() error {
	if f == nil {
		return ErrInvalidArgument
	}
	vals := make([]uint8, len(f.shadow))
	for i, a := range f.layout.Offsets {
		switch a {
		case Pan, Tilt:
			vals[i] = Center
		case Effect:
			vals[i], _ = EffectLEDOff.Byte()
		default:
			// white, open gobo, fixed rotation, blackout and dimmer 0 are all 0
		}
	}
	return f.SetAll(vals)
}
