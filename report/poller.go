package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alia5/keyview/internal/log"
)

const (
	// DefaultInterval is the pause between two polls.
	DefaultInterval = 8 * time.Millisecond
	// DefaultBuffer is the number of reports kept for a slow consumer.
	DefaultBuffer = 64
)

// Poller polls a Source on its own goroutine and forwards reports on a
// channel. When the consumer lags the oldest buffered report is dropped;
// consumers only care about the latest one.
type Poller struct {
	Source   Source
	Interval time.Duration
	Buffer   int
	Logger   *slog.Logger
}

// Start launches the polling goroutine. Cancelling ctx stops it, closes
// the source and then closes the returned channel.
func (p *Poller) Start(ctx context.Context) <-chan Report {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	buffer := p.Buffer
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	logger := p.Logger
	if logger == nil {
		logger = log.Discard()
	}

	ch := make(chan Report, buffer)
	// A blocked read only returns once the source is closed.
	stopClose := context.AfterFunc(ctx, func() { _ = p.Source.Close() })

	go func() {
		defer close(ch)
		defer func() {
			stopClose()
			_ = p.Source.Close()
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			r, ok, err := p.Source.Poll(ctx)
			switch {
			case ctx.Err() != nil:
				return
			case err != nil:
				logger.Debug("report source poll failed", "error", err)
			case ok:
				logger.Log(ctx, log.LevelTrace, "report", "layer", r.ActiveLayer, "pressed", r.PressedBits)
				send(ch, r)
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return ch
}

// send enqueues r, evicting the oldest report if the buffer is full. The
// poller is the only sender, so after one eviction the send cannot block.
func send(ch chan Report, r Report) {
	select {
	case ch <- r:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- r:
	default:
	}
}

// Latest drains every report currently buffered in ch without blocking and
// returns the last one. ok is false if nothing was pending.
func Latest(ch <-chan Report) (last Report, ok bool) {
	for {
		select {
		case r, open := <-ch:
			if !open {
				return last, ok
			}
			last, ok = r, true
		default:
			return last, ok
		}
	}
}
