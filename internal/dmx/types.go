package dmx

import (
	"errors"
	"fmt"
)

const (
	// UniverseSize is the number of channels a DMX512 frame can carry.
	UniverseSize = 512
	// StartCode is the null start code sent ahead of dimmer data.
	StartCode byte = 0x00
	// BaudRate is the DMX512 line rate.
	BaudRate = 250000
)

// ErrChannelRange is returned for channel numbers outside 1..512.
var ErrChannelRange = errors.New("dmx channel out of range")

// ChannelValue is a single channel write. Channel is 1-based.
type ChannelValue struct {
	Channel uint16 // Channel: номер канала 1..512.
	Value   uint8  // Value: значение для канала.
}

// Universe wraps the 512 byte array. Channel 1 lives at index 0.
type Universe [UniverseSize]byte

// SetChannel writes one channel.
func (u *Universe) SetChannel(ch uint16, v uint8) error {
	if ch < 1 || ch > UniverseSize {
		return fmt.Errorf("%w: %d", ErrChannelRange, ch)
	}
	u[ch-1] = v
	return nil
}

// SetChannels writes vals starting at channel start. Nothing is written
// unless the whole run fits.
func (u *Universe) SetChannels(start uint16, vals []uint8) error {
	if start < 1 || int(start)+len(vals)-1 > UniverseSize {
		return fmt.Errorf("%w: %d+%d", ErrChannelRange, start, len(vals))
	}
	copy(u[start-1:], vals)
	return nil
}

// Channel reads one channel; out of range reads return 0.
func (u Universe) Channel(ch uint16) uint8 {
	if ch < 1 || ch > UniverseSize {
		return 0
	}
	return u[ch-1]
}

// ClearAll zeroes every channel.
func (u *Universe) ClearAll() {
	*u = Universe{}
}

// Sender puts one frame of channel data on the wire. Errors are handled by
// the implementation; a frame is best-effort.
type Sender interface {
	SendFrame(data []byte)
	Close() error
}

// ChannelWriter is the write side of a universe shared between goroutines.
type ChannelWriter interface {
	SetChannel(ch uint16, v uint8) error
	SetChannels(start uint16, vals []uint8) error
}
