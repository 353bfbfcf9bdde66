package pagestore

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// IOConfig holds IO limits for a store.
type IOConfig struct {
	// MaxConcurrentReads bounds concurrently running read handlers.
	// If 0, defaults to 1.
	MaxConcurrentReads int64

	// ReadBytesPerSec is the maximum read throughput.
	// If 0, unlimited.
	ReadBytesPerSec int64
}

// Controller enforces IO limits (read concurrency, read throughput) for a
// page store backend.
type Controller struct {
	readSem *semaphore.Weighted
	limiter *rate.Limiter
}

// NewController creates a controller from cfg.
func NewController(cfg IOConfig) *Controller {
	if cfg.MaxConcurrentReads <= 0 {
		cfg.MaxConcurrentReads = 1
	}
	c := &Controller{
		readSem: semaphore.NewWeighted(cfg.MaxConcurrentReads),
	}
	if cfg.ReadBytesPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.ReadBytesPerSec), int(cfg.ReadBytesPerSec))
	}
	return c
}

// AcquireRead blocks until a read slot is available.
func (c *Controller) AcquireRead(ctx context.Context) error {
	return c.readSem.Acquire(ctx, 1)
}

// ReleaseRead returns a read slot.
func (c *Controller) ReleaseRead() {
	c.readSem.Release(1)
}

// WaitIO blocks until n bytes of IO budget are available.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c.limiter == nil || n <= 0 {
		return nil
	}
	burst := c.limiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
