package game

import (
	"context"
	"time"
)

// Paddles carries hit events from the receiver to the game loop. Each side
// holds at most one pending hit; a newer hit replaces an unread one.
type Paddles struct {
	ch [2]chan Hit
}

func NewPaddles() *Paddles {
	return &Paddles{ch: [2]chan Hit{make(chan Hit, 1), make(chan Hit, 1)}}
}

// Signal records a hit without blocking.
func (p *Paddles) Signal(h Hit) {
	ch := p.ch[h.Side]
	for {
		select {
		case ch <- h:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Clear drops a pending hit on side.
func (p *Paddles) Clear(side Side) {
	select {
	case <-p.ch[side]:
	default:
	}
}

// Wait blocks for a hit on side. A timeout <= 0 waits until ctx is done.
// ok is false when the timeout expired.
func (p *Paddles) Wait(ctx context.Context, side Side, timeout time.Duration) (h Hit, ok bool, err error) {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case h = <-p.ch[side]:
		return h, true, nil
	case <-expired:
		return Hit{}, false, nil
	case <-ctx.Done():
		return Hit{}, false, ctx.Err()
	}
}
