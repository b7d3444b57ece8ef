package frame

import (
	"fmt"
)

type ErrNotReady struct {
	Source string
}

func (e ErrNotReady) Error() string {
	return fmt.Sprintf("frame '%s' is not materialized yet", e.Source)
}

// ErrInvalidState means the Frame holds neither a native nor a materialized
// payload; only a zero-value Frame may get there.
type ErrInvalidState struct{}

func (ErrInvalidState) Error() string {
	return "has neither native nor materialized frame"
}

type ErrConversionFailed struct {
	Reason string
	Err    error
}

func (e ErrConversionFailed) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("conversion failed: %s", e.Reason)
	}
	return fmt.Sprintf("conversion failed: %s: %v", e.Reason, e.Err)
}

func (e ErrConversionFailed) Unwrap() error {
	return e.Err
}

type ErrInvalidDimensions struct {
	Width  int
	Height int
}

func (e ErrInvalidDimensions) Error() string {
	return fmt.Sprintf("invalid dimensions %dx%d", e.Width, e.Height)
}
