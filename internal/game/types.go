package game

import (
	"time"

	"lightpong/internal/fixture"
)

// Side is where the ball currently is.
type Side int

const (
	SideTop Side = iota
	SideBottom
)

func (s Side) String() string {
	if s == SideTop {
		return "TOP"
	}
	return "BOTTOM"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideTop {
		return SideBottom
	}
	return SideTop
}

// Player defending s: player 1 at the top, player 2 at the bottom.
func (s Side) Player() int {
	return int(s) + 1
}

// Score holds both players' points.
type Score struct {
	P1 uint8
	P2 uint8
}

// MarshalBinary encodes the 2-byte score record.
func (s Score) MarshalBinary() ([]byte, error) {
	return []byte{s.P1, s.P2}, nil
}

// Hit is a paddle hit on one side. Fireball selects the fireball look for
// the returned ball.
type Hit struct {
	Side     Side
	Fireball bool
}

// Light is the part of the fixture the game drives.
type Light interface {
	SetPosition16(pan, tilt uint16) error
	SetColor(c fixture.ColorWheel) error
	SetShutter(s fixture.ShutterMode) error
	SetGobo(g fixture.GoboWheel) error
	SetGoboRotation(mode fixture.RotationMode, speed uint8) error
	SetIntensity(v uint8) error
	SetSpeed(v uint8) error
	SetSpecial(s fixture.SpecialFunction) error
}

// Broadcaster tells the outside world about score changes.
type Broadcaster interface {
	PublishScore(s Score) error
}

// Conf holds the game tuning.
type Conf struct {
	WinScore    uint8
	HitTimeout  time.Duration
	MoveDelay   time.Duration
	ResetDelay  time.Duration
	Blinks      int
	BlinkOn     time.Duration
	BlinkOff    time.Duration
	PanMin      uint8
	PanMax      uint8
	TiltTop     uint8
	TiltBottom  uint8
	EffectSpeed float64 // scales the fixed animation pauses; 0 plays them instantly
}
