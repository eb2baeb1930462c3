package fixture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lightpong/internal/dmx"
)

func filled() *dmx.Universe {
	u := &dmx.Universe{}
	for i := range u {
		u[i] = 0xAA
	}
	return u
}

func TestNewZeroesFootprint(t *testing.T) {
	for _, layout := range []Layout{MHX25Basic, MHX25Extended, Headlight} {
		n := layout.Channels()
		for _, start := range []uint16{1, 7, 100, uint16(512 - n + 1)} {
			u := filled()
			f, err := New(u, layout, start)
			require.NoError(t, err, "%s@%d", layout.Name, start)
			assert.Equal(t, make([]uint8, n), u[start-1:int(start)-1+n], "%s@%d", layout.Name, start)
			assert.Equal(t, make([]uint8, n), f.Channels())
			if start > 1 {
				assert.Equal(t, uint8(0xAA), u[start-2], "channel before fixture untouched")
			}
		}
	}
}

func TestNewRejectsStartOutOfRange(t *testing.T) {
	for _, layout := range []Layout{MHX25Basic, MHX25Extended, Headlight} {
		n := layout.Channels()
		for _, start := range []uint16{0, uint16(512 - n + 2), 512, 600} {
			u := filled()
			f, err := New(u, layout, start)
			assert.Nil(t, f)
			assert.True(t, errors.Is(err, ErrInvalidArgument), "%s@%d", layout.Name, start)
			assert.Equal(t, filled(), u, "universe must stay unmodified")
		}
	}
}

func TestNewNilWriter(t *testing.T) {
	_, err := New(nil, MHX25Basic, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	var tx *dmx.Transmitter
	f, err := New(tx, MHX25Basic, 1)
	assert.Nil(t, f)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	var u *dmx.Universe
	_, err = New(u, Headlight, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestNilFixture(t *testing.T) {
	var f *Fixture
	assert.True(t, errors.Is(f.SetPan(1), ErrInvalidArgument))
	assert.True(t, errors.Is(f.SetColor(ColorRed), ErrInvalidArgument))
	assert.True(t, errors.Is(f.SetGoboRotation(RotationCW, 5), ErrInvalidArgument))
	assert.True(t, errors.Is(f.Off(), ErrInvalidArgument))
	assert.True(t, errors.Is(f.SetIntensity(255), ErrInvalidArgument))
	assert.Nil(t, f.Channels())
}

func TestBasicLayoutOffsets(t *testing.T) {
	u := &dmx.Universe{}
	f, err := New(u, MHX25Basic, 10)
	require.NoError(t, err)

	require.NoError(t, f.SetPosition(1, 2))
	require.NoError(t, f.SetColor(ColorRed))
	require.NoError(t, f.SetShutter(ShutterOpen))
	require.NoError(t, f.SetGobo(Gobo4))
	require.NoError(t, f.SetGoboRotation(RotationCW, 10))

	assert.Equal(t, []uint8{1, 2, 37, 7, 28, 74}, u[9:15])
	assert.Equal(t, u[9:15], f.Channels())
}

func TestUnsupportedAttribute(t *testing.T) {
	u := &dmx.Universe{}
	f, err := New(u, MHX25Basic, 1)
	require.NoError(t, err)

	assert.True(t, errors.Is(f.SetDimmer(10), ErrUnsupported))
	assert.True(t, errors.Is(f.SetRGB(1, 2, 3), ErrUnsupported))
	assert.Equal(t, dmx.Universe{}, *u)
}

func TestInvalidEnumValue(t *testing.T) {
	u := &dmx.Universe{}
	f, err := New(u, MHX25Basic, 1)
	require.NoError(t, err)

	assert.True(t, errors.Is(f.SetColor(ColorWheel(99)), ErrInvalidArgument))
	assert.True(t, errors.Is(f.SetGobo(GoboWheel(-1)), ErrInvalidArgument))
	assert.True(t, errors.Is(f.SetGoboRotation(RotationMode(7), 1), ErrInvalidArgument))
	assert.Equal(t, dmx.Universe{}, *u)
}

func TestEncodeGoboRotation(t *testing.T) {
	tests := []struct {
		mode  RotationMode
		speed uint8
		want  uint8
	}{
		{RotationFixed, 100, 63},
		{RotationFixed, 30, 30},
		{RotationFixed, 63, 63},
		{RotationCW, 100, 64 + 84},
		{RotationCW, 10, 64 + 10},
		{RotationCCW, 52, 200},
		{RotationCCW, 255, 148 + 84},
		{RotationOscillate, 0, 232},
		{RotationOscillate, 84, 255},
	}
	for _, tt := range tests {
		got, err := EncodeGoboRotation(tt.mode, tt.speed)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "mode %d speed %d", tt.mode, tt.speed)
	}
}

func TestExtendedPosition16(t *testing.T) {
	u := &dmx.Universe{}
	f, err := New(u, MHX25Extended, 1)
	require.NoError(t, err)

	require.NoError(t, f.SetPosition16(0x1234, 0xBC00))
	assert.Equal(t, []uint8{0x12, 0xBC, 0x34, 0x00}, u[0:4])

	b := &dmx.Universe{}
	basic, err := New(b, MHX25Basic, 1)
	require.NoError(t, err)
	require.NoError(t, basic.SetPosition16(0x1234, 0xBC00))
	assert.Equal(t, []uint8{0x12, 0xBC}, b[0:2])
}

func TestExtendedSpecialSpeedDimmer(t *testing.T) {
	u := &dmx.Universe{}
	f, err := New(u, MHX25Extended, 1)
	require.NoError(t, err)

	require.NoError(t, f.SetSpeed(SpeedFast))
	require.NoError(t, f.SetDimmer(DimmerFull))
	require.NoError(t, f.SetSpecial(SpecialNoBlackoutPanTilt))

	assert.Equal(t, SpeedFast, u.Channel(5))
	assert.Equal(t, DimmerFull, u.Channel(8))
	assert.Equal(t, uint8(100), u.Channel(11))
}

func TestHeadlightLayout(t *testing.T) {
	u := &dmx.Universe{}
	f, err := New(u, Headlight, 1)
	require.NoError(t, err)

	require.NoError(t, f.SetRGB(255, 10, 20))
	require.NoError(t, f.SetColorMacro(Macro3))
	require.NoError(t, f.SetEffect(EffectStrobe))
	require.NoError(t, f.SetDimmer(200))

	assert.Equal(t, []uint8{255, 10, 20, 121, 31, 200}, u[3:9])
	assert.True(t, errors.Is(f.SetColor(ColorRed), ErrUnsupported))
}

func TestSetIntensityFallsBackToShutter(t *testing.T) {
	u := &dmx.Universe{}
	basic, err := New(u, MHX25Basic, 1)
	require.NoError(t, err)

	require.NoError(t, basic.SetIntensity(255))
	assert.Equal(t, uint8(7), u.Channel(4))
	require.NoError(t, basic.SetIntensity(0))
	assert.Equal(t, uint8(0), u.Channel(4))

	e := &dmx.Universe{}
	ext, err := New(e, MHX25Extended, 1)
	require.NoError(t, err)
	require.NoError(t, ext.SetIntensity(42))
	assert.Equal(t, uint8(42), e.Channel(8))
}

func TestOff(t *testing.T) {
	u := &dmx.Universe{}
	f, err := New(u, MHX25Basic, 1)
	require.NoError(t, err)
	require.NoError(t, f.SetAll([]uint8{1, 2, 3, 4, 5, 6}))

	require.NoError(t, f.Off())
	assert.Equal(t, []uint8{128, 128, 0, 0, 0, 0}, u[0:6])

	require.True(t, errors.Is(f.SetAll([]uint8{1}), ErrInvalidArgument))
}

func TestLayoutByName(t *testing.T) {
	l, ok := LayoutByName("headlight")
	require.True(t, ok)
	assert.Equal(t, 11, l.Channels())

	l, ok = LayoutByName("mh-x25")
	require.True(t, ok)
	assert.Equal(t, 6, l.Channels())

	_, ok = LayoutByName("par-can")
	assert.False(t, ok)
}
