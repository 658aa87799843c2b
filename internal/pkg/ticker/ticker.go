package ticker

import (
	"context"
	"log/slog"
	"time"
)

// Func is invoked on every tick. Returning done=true stops the loop.
type Func func(ctx context.Context, now time.Time) (done bool, err error)

// Run invokes fn immediately and then once per interval until fn reports done,
// fn fails or ctx is cancelled. A cancelled ctx is not an error.
func Run(ctx context.Context, name string, interval time.Duration, fn Func) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	// Run immediately on start
	if done, err := execute(ctx, name, fn, time.Now()); done || err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Ticker stopping", "name", name)
			return nil
		case now := <-t.C:
			if done, err := execute(ctx, name, fn, now); done || err != nil {
				return err
			}
		}
	}
}

func execute(ctx context.Context, name string, fn Func, now time.Time) (bool, error) {
	done, err := fn(ctx, now)
	if err != nil {
		slog.Error("Ticker func failed", "name", name, "error", err)
		return true, err
	}
	if done {
		slog.Debug("Ticker func completed", "name", name)
	}
	return done, nil
}
