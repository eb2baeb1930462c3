package demo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lightpong/internal/dmx"
	"lightpong/internal/fixture"
	"lightpong/internal/logger"
)

func TestCircle(t *testing.T) {
	pts := Circle(4, 50)
	require.Len(t, pts, 4)
	assert.Equal(t, Point{Pan: 178, Tilt: 128}, pts[0])
	assert.Equal(t, Point{Pan: 128, Tilt: 178}, pts[1])
	assert.Equal(t, Point{Pan: 78, Tilt: 128}, pts[2])
}

func TestAroundClamps(t *testing.T) {
	assert.Equal(t, uint8(255), around(200, 100))
	assert.Equal(t, uint8(0), around(10, -50))
	for _, p := range Circle(360, 200) {
		assert.True(t, p.Pan <= 255 && p.Tilt <= 255)
	}
}

func TestTiltSweep(t *testing.T) {
	pts := TiltSweep(128)
	require.Len(t, pts, 512)
	assert.Equal(t, uint8(0), pts[0].Tilt)
	assert.Equal(t, uint8(255), pts[255].Tilt)
	assert.Equal(t, uint8(255), pts[256].Tilt)
	assert.Equal(t, uint8(0), pts[511].Tilt)
}

func TestPlayMovesFixture(t *testing.T) {
	u := &dmx.Universe{}
	light, err := fixture.New(u, fixture.MHX25Basic, 1)
	require.NoError(t, err)

	p := NewPlayer(logger.Discard(), light, 0)
	pat := Pattern{Name: "two", Color: fixture.ColorRed, Points: []Point{{1, 2}, {3, 4}}}
	require.NoError(t, p.Play(context.Background(), pat))

	assert.Equal(t, []uint8{3, 4, 37, 7}, u[0:4])
}

func TestRunStopsOnCancel(t *testing.T) {
	u := &dmx.Universe{}
	light, err := fixture.New(u, fixture.Headlight, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewPlayer(logger.Discard(), light, 0).Run(ctx, Patterns())
	assert.True(t, errors.Is(err, context.Canceled))
}
