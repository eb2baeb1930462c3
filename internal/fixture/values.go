package fixture

import "fmt"

// ColorWheel is a slot on the MH X25 color wheel.
type ColorWheel int

const (
	ColorWhite ColorWheel = iota
	ColorYellow
	ColorPink
	ColorGreen
	ColorPeachblow
	ColorLightBlue
	ColorYellowGreen
	ColorRed
	ColorDarkBlue
	ColorRainbowCW
	ColorRainbowCCW
)

var colorWheelValues = [...]uint8{
	ColorWhite:       0,
	ColorYellow:      7,
	ColorPink:        12,
	ColorGreen:       17,
	ColorPeachblow:   22,
	ColorLightBlue:   27,
	ColorYellowGreen: 32,
	ColorRed:         37,
	ColorDarkBlue:    42,
	ColorRainbowCW:   160,
	ColorRainbowCCW:  224,
}

// Byte returns the DMX value of c.
func (c ColorWheel) Byte() (uint8, error) {
	return lookup(colorWheelValues[:], int(c), "color")
}

// ShutterMode is the shutter/strobe channel setting.
type ShutterMode int

const (
	ShutterBlackout ShutterMode = iota
	ShutterOpen
	ShutterStrobeSlow
	ShutterStrobeMedium
	ShutterStrobeFast
)

var shutterValues = [...]uint8{
	ShutterBlackout:     0,
	ShutterOpen:         7,
	ShutterStrobeSlow:   50,
	ShutterStrobeMedium: 130,
	ShutterStrobeFast:   200,
}

func (s ShutterMode) Byte() (uint8, error) {
	return lookup(shutterValues[:], int(s), "shutter")
}

// GoboWheel is a slot on the gobo wheel.
type GoboWheel int

const (
	GoboOpen GoboWheel = iota
	Gobo2
	Gobo3
	Gobo4
	Gobo5
	Gobo6
	Gobo7
	Gobo8
	GoboRainbowCW
	GoboRainbowCCW
)

var goboValues = [...]uint8{
	GoboOpen:       0,
	Gobo2:          12,
	Gobo3:          20,
	Gobo4:          28,
	Gobo5:          36,
	Gobo6:          44,
	Gobo7:          52,
	Gobo8:          60,
	GoboRainbowCW:  160,
	GoboRainbowCCW: 224,
}

func (g GoboWheel) Byte() (uint8, error) {
	return lookup(goboValues[:], int(g), "gobo")
}

// RotationMode selects how the gobo wheel turns.
type RotationMode int

const (
	RotationFixed RotationMode = iota
	RotationCW
	RotationCCW
	RotationOscillate
)

const (
	maxFixedIndex    = 63
	maxRotationSpeed = 84
)

var rotationBase = [...]uint8{
	RotationFixed:     0,
	RotationCW:        64,
	RotationCCW:       148,
	RotationOscillate: 232,
}

// EncodeGoboRotation packs a mode and its speed (or index, for fixed) into
// one channel byte. Fixed clamps to 63; the moving modes add up to 84 to
// their base and saturate at 255.
func EncodeGoboRotation(mode RotationMode, speed uint8) (uint8, error) {
	base, err := lookup(rotationBase[:], int(mode), "gobo rotation")
	if err != nil {
		return 0, err
	}
	if mode == RotationFixed {
		if speed > maxFixedIndex {
			speed = maxFixedIndex
		}
		return speed, nil
	}
	if speed > maxRotationSpeed {
		speed = maxRotationSpeed
	}
	v := int(base) + int(speed)
	if v > 255 {
		v = 255
	}
	return uint8(v), nil
}

// SpecialFunction is channel 11 of the 12-channel MH X25 mode.
type SpecialFunction int

const (
	SpecialNone SpecialFunction = iota
	SpecialBlackoutPanTilt
	SpecialNoBlackoutPanTilt
	SpecialBlackoutColor
	SpecialNoBlackoutColor
	SpecialReset
)

var specialValues = [...]uint8{
	SpecialNone:              0,
	SpecialBlackoutPanTilt:   80,
	SpecialNoBlackoutPanTilt: 100,
	SpecialBlackoutColor:     120,
	SpecialNoBlackoutColor:   140,
	SpecialReset:             200,
}

func (s SpecialFunction) Byte() (uint8, error) {
	return lookup(specialValues[:], int(s), "special")
}

// MacroColor is a color macro on the headlight fixture.
type MacroColor int

const (
	MacroNeutral MacroColor = iota
	Macro1
	Macro2
	Macro3
	Macro4
	Macro5
	Macro6
	MacroNeutralEnd
)

var macroValues = [...]uint8{
	MacroNeutral:    0,
	Macro1:          41,
	Macro2:          81,
	Macro3:          121,
	Macro4:          141,
	Macro5:          161,
	Macro6:          201,
	MacroNeutralEnd: 241,
}

func (m MacroColor) Byte() (uint8, error) {
	return lookup(macroValues[:], int(m), "color macro")
}

// EffectMode is the effect channel of the headlight fixture.
type EffectMode int

const (
	EffectLEDOff EffectMode = iota
	EffectNeutral
	EffectReset
	EffectStrobe
	EffectRandomStrobe
	EffectNeutralEnd
)

var effectValues = [...]uint8{
	EffectLEDOff:       0,
	EffectNeutral:      11,
	EffectReset:        21,
	EffectStrobe:       31,
	EffectRandomStrobe: 201,
	EffectNeutralEnd:   251,
}

func (e EffectMode) Byte() (uint8, error) {
	return lookup(effectValues[:], int(e), "effect")
}

// EffectByName maps the names used on the command topic.
func EffectByName(name string) (EffectMode, bool) {
	switch name {
	case "off":
		return EffectLEDOff, true
	case "neutral":
		return EffectNeutral, true
	case "reset":
		return EffectReset, true
	case "strobe":
		return EffectStrobe, true
	case "random-strobe":
		return EffectRandomStrobe, true
	}
	return 0, false
}

const (
	DimmerFull uint8 = 255
	SpeedFast  uint8 = 0
	SpeedSlow  uint8 = 255
	Center     uint8 = 128
)

func lookup(table []uint8, i int, what string) (uint8, error) {
	if i < 0 || i >= len(table) {
		return 0, fmt.Errorf("%w: %s %d", ErrInvalidArgument, what, i)
	}
	return table[i], nil
}
