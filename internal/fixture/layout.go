package fixture

// Attribute is a logical fixture control.
type Attribute int

const (
	Pan Attribute = iota
	Tilt
	PanFine
	TiltFine
	Speed
	Color
	Red
	Green
	Blue
	ColorMacro
	Shutter
	Effect
	Dimmer
	Gobo
	GoboRotation
	Special
	Program
)

var attributeNames = [...]string{
	Pan:          "pan",
	Tilt:         "tilt",
	PanFine:      "pan-fine",
	TiltFine:     "tilt-fine",
	Speed:        "speed",
	Color:        "color",
	Red:          "red",
	Green:        "green",
	Blue:         "blue",
	ColorMacro:   "color-macro",
	Shutter:      "shutter",
	Effect:       "effect",
	Dimmer:       "dimmer",
	Gobo:         "gobo",
	GoboRotation: "gobo-rotation",
	Special:      "special",
	Program:      "program",
}

func (a Attribute) String() string {
	if a < 0 || int(a) >= len(attributeNames) {
		return "unknown"
	}
	return attributeNames[a]
}

// Layout maps attributes to 0-based offsets from the fixture start address.
type Layout struct {
	Name    string
	Offsets []Attribute // Offsets[i] is the attribute on channel start+i.
}

// Channels is the footprint of the layout.
func (l Layout) Channels() int {
	return len(l.Offsets)
}

// Offset returns the channel offset of a.
func (l Layout) Offset(a Attribute) (int, bool) {
	for i, x := range l.Offsets {
		if x == a {
			return i, true
		}
	}
	return 0, false
}

var (
	// MHX25Basic is the 6-channel mode of the MH X25 moving head.
	MHX25Basic = Layout{
		Name:    "mh-x25",
		Offsets: []Attribute{Pan, Tilt, Color, Shutter, Gobo, GoboRotation},
	}

	// MHX25Extended is the 12-channel mode with fine position, speed,
	// dimmer and special functions.
	MHX25Extended = Layout{
		Name: "mh-x25-12ch",
		Offsets: []Attribute{
			Pan, Tilt, PanFine, TiltFine, Speed, Color,
			Shutter, Dimmer, Gobo, GoboRotation, Special, Program,
		},
	}

	// Headlight is an 11-channel RGB moving head.
	Headlight = Layout{
		Name: "headlight",
		Offsets: []Attribute{
			Pan, Tilt, Speed, Red, Green, Blue,
			ColorMacro, Effect, Dimmer, PanFine, TiltFine,
		},
	}
)

// LayoutByName resolves a configured model name.
func LayoutByName(name string) (Layout, bool) {
	for _, l := range []Layout{MHX25Basic, MHX25Extended, Headlight} {
		if l.Name == name {
			return l, true
		}
	}
	return Layout{}, false
}
