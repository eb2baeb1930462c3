package dmx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniverseSetChannel(t *testing.T) {
	var u Universe
	require.NoError(t, u.SetChannel(1, 11))
	require.NoError(t, u.SetChannel(512, 99))
	assert.Equal(t, uint8(11), u[0])
	assert.Equal(t, uint8(99), u[511])
	assert.Equal(t, uint8(11), u.Channel(1))

	assert.True(t, errors.Is(u.SetChannel(0, 1), ErrChannelRange))
	assert.True(t, errors.Is(u.SetChannel(513, 1), ErrChannelRange))
	assert.Equal(t, uint8(0), u.Channel(0))
}

func TestUniverseSetChannelsAllOrNothing(t *testing.T) {
	var u Universe
	require.NoError(t, u.SetChannels(507, []uint8{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, u[506:512])

	var v Universe
	err := v.SetChannels(508, []uint8{1, 2, 3, 4, 5, 6})
	require.True(t, errors.Is(err, ErrChannelRange))
	assert.Equal(t, Universe{}, v)
}

func TestUniverseClearAllIdempotent(t *testing.T) {
	var u Universe
	for i := range u {
		u[i] = uint8(i)
	}
	u.ClearAll()
	first := u
	u.ClearAll()
	assert.Equal(t, Universe{}, first)
	assert.Equal(t, first, u)
}
