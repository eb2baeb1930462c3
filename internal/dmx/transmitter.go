package dmx

import (
	"context"
	"errors"
	"sync"
	"time"

	"lightpong/internal/logger"
)

// Transmitter owns the universe and refreshes it on the wire at a steady
// rate. Fixtures write through SetChannel(s); the refresh loop sends a
// snapshot every tick.
type Transmitter struct {
	log      *logger.Log
	sender   Sender
	length   int
	interval time.Duration

	mu       sync.Mutex
	universe Universe

	sendMu sync.Mutex

	wg   sync.WaitGroup
	stop context.CancelFunc
}

// NewTransmitter sends the first length channels refreshHz times a second.
func NewTransmitter(log logger.Logger, sender Sender, length, refreshHz int) (*Transmitter, error) {
	if sender == nil {
		return nil, errors.New("dmx sender is nil")
	}
	if length < 1 || length > UniverseSize {
		return nil, ErrChannelRange
	}
	if refreshHz < 1 {
		return nil, errors.New("dmx refresh rate must be at least 1 Hz")
	}
	return &Transmitter{
		log:      log.Module("dmx"),
		sender:   sender,
		length:   length,
		interval: time.Second / time.Duration(refreshHz),
	}, nil
}

// SetChannel implements ChannelWriter.
func (t *Transmitter) SetChannel(ch uint16, v uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.universe.SetChannel(ch, v)
}

// SetChannels implements ChannelWriter.
func (t *Transmitter) SetChannels(start uint16, vals []uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.universe.SetChannels(start, vals)
}

// SetChannelValues applies raw writes, stopping at the first bad channel.
func (t *Transmitter) SetChannelValues(values []ChannelValue) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, v := range values {
		if err := t.universe.SetChannel(v.Channel, v.Value); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll resets every channel to 0.
func (t *Transmitter) ClearAll() {
	t.mu.Lock()
	t.universe.ClearAll()
	t.mu.Unlock()
}

// Snapshot returns a copy of the universe.
func (t *Transmitter) Snapshot() Universe {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.universe
}

// Flush sends the current universe immediately.
func (t *Transmitter) Flush() {
	u := t.Snapshot()
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	t.sender.SendFrame(u[:t.length])
}

// Start runs the refresh loop until ctx is done or Stop is called.
func (t *Transmitter) Start(ctx context.Context) {
	ctx, t.stop = context.WithCancel(ctx)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.refresh(ctx)
	}()
	t.log.Infof("DMX refresh started: %d channels every %v", t.length, t.interval)
}

// Stop ends the refresh loop, blacks out the universe and closes the sender.
func (t *Transmitter) Stop() error {
	if t.stop != nil {
		t.stop()
	}
	t.wg.Wait()
	t.ClearAll()
	t.Flush()
	return t.sender.Close()
}

func (t *Transmitter) refresh(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Flush()
		}
	}
}
