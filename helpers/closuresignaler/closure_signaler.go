// Package closuresignaler tracks whether a resource holding FFmpeg
// contexts was closed.
package closuresignaler

import (
	"context"
	"fmt"
	"sync"

	"github.com/xaionaro-go/avstill/logger"
)

type ErrClosed struct {
	What fmt.Stringer
}

func (e ErrClosed) Error() string {
	return fmt.Sprintf("%s is closed", e.What)
}

type ClosureSignaler struct {
	closeOnce sync.Once
	c         chan struct{}
}

func New() *ClosureSignaler {
	return &ClosureSignaler{
		c: make(chan struct{}),
	}
}

func (c *ClosureSignaler) CloseChan() <-chan struct{} {
	return c.c
}

func (c *ClosureSignaler) Close(ctx context.Context) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close") }()
	c.closeOnce.Do(func() {
		close(c.c)
	})
}

func (c *ClosureSignaler) IsClosed() bool {
	select {
	case <-c.c:
		return true
	default:
		return false
	}
}

// CheckOpen returns ErrClosed if the resource is closed.
func (c *ClosureSignaler) CheckOpen(what fmt.Stringer) error {
	if c.IsClosed() {
		return ErrClosed{What: what}
	}
	return nil
}
