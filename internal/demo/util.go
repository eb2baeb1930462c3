package demo

import (
	"context"
	"errors"
	"time"

	"lightpong/internal/fixture"
)

func isUnsupported(err error) bool {
	return errors.Is(err, fixture.ErrUnsupported)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
