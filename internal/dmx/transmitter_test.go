package dmx

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lightpong/internal/logger"
)

type recordingSender struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (r *recordingSender) SendFrame(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, append([]byte(nil), data...))
}

func (r *recordingSender) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recordingSender) last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

func TestNewTransmitterValidation(t *testing.T) {
	_, err := NewTransmitter(logger.Discard(), nil, 512, 44)
	require.Error(t, err)
	_, err = NewTransmitter(logger.Discard(), &recordingSender{}, 0, 44)
	require.Error(t, err)
	_, err = NewTransmitter(logger.Discard(), &recordingSender{}, 513, 44)
	require.Error(t, err)
	_, err = NewTransmitter(logger.Discard(), &recordingSender{}, 512, 0)
	require.Error(t, err)
}

func TestTransmitterFlushSendsConfiguredLength(t *testing.T) {
	s := &recordingSender{}
	tx, err := NewTransmitter(logger.Discard(), s, 6, 44)
	require.NoError(t, err)

	require.NoError(t, tx.SetChannels(1, []uint8{1, 2, 3}))
	require.NoError(t, tx.SetChannel(6, 9))
	tx.Flush()

	assert.Equal(t, []byte{1, 2, 3, 0, 0, 9}, s.last())
}

func TestTransmitterSetChannelValues(t *testing.T) {
	tx, err := NewTransmitter(logger.Discard(), &recordingSender{}, 512, 44)
	require.NoError(t, err)

	require.NoError(t, tx.SetChannelValues([]ChannelValue{{Channel: 2, Value: 5}, {Channel: 512, Value: 7}}))
	u := tx.Snapshot()
	assert.Equal(t, uint8(5), u.Channel(2))
	assert.Equal(t, uint8(7), u.Channel(512))
	assert.Equal(t, uint8(5), tx.Snapshot().Channel(2), "snapshot is readable without a variable")

	require.Error(t, tx.SetChannelValues([]ChannelValue{{Channel: 0, Value: 1}}))
}

func TestTransmitterClearAllTwice(t *testing.T) {
	tx, err := NewTransmitter(logger.Discard(), &recordingSender{}, 512, 44)
	require.NoError(t, err)
	require.NoError(t, tx.SetChannels(1, []uint8{255, 255, 255}))

	tx.ClearAll()
	tx.ClearAll()
	assert.Equal(t, Universe{}, tx.Snapshot())
}

func TestTransmitterRefreshLoop(t *testing.T) {
	s := &recordingSender{}
	tx, err := NewTransmitter(logger.Discard(), s, 12, 200)
	require.NoError(t, err)
	require.NoError(t, tx.SetChannel(1, 42))

	tx.Start(context.Background())
	require.Eventually(t, func() bool { return s.count() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, uint8(42), s.last()[0])

	require.NoError(t, tx.Stop())
	assert.True(t, s.closed)
	// final blackout frame
	assert.Equal(t, make([]byte, 12), s.last())
}
