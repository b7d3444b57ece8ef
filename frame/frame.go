// frame.go implements a lazily converted video frame.

// Package frame provides Frame: a decoded video frame which is converted
// into an encoded image on first demand.
package frame

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/avstill/logger"
	"github.com/xaionaro-go/xsync"
)

// Converter turns a native frame into encoded image bytes.
type Converter interface {
	Materialize(ctx context.Context, native *Native, transparent bool) ([]byte, error)
}

// payload is either *Native or *Materialized.
type payload interface {
	isPayload()
}

// Frame holds either a Native or a Materialized payload. The transition
// Native -> Materialized happens once, in Materialize; after it the
// decoded planes are released.
type Frame struct {
	locker      xsync.Mutex
	payload     payload
	transparent bool
	converter   Converter
}

func New(
	native *Native,
	transparent bool,
	converter Converter,
) (*Frame, error) {
	if native == nil {
		return nil, fmt.Errorf("native frame is nil")
	}
	if converter == nil {
		return nil, fmt.Errorf("converter is nil")
	}
	if err := native.Validate(); err != nil {
		return nil, fmt.Errorf("invalid native frame: %w", err)
	}
	return &Frame{
		payload:     native,
		transparent: transparent,
		converter:   converter,
	}, nil
}

func (f *Frame) String() string {
	ctx := context.Background()
	return xsync.DoR1(ctx, &f.locker, func() string {
		switch p := f.payload.(type) {
		case *Native:
			return fmt.Sprintf("Frame(%s, ~%s)", p, humanize.Bytes(p.EstimatedSize))
		case *Materialized:
			return fmt.Sprintf("Frame(materialized, %s)", humanize.Bytes(uint64(len(p.Data))))
		default:
			return "Frame(<invalid>)"
		}
	})
}

// Transparent reports whether an alpha-carrying image was requested.
func (f *Frame) Transparent() bool {
	return f.transparent
}

// IsMaterialized reports whether the encoded image is available.
func (f *Frame) IsMaterialized(ctx context.Context) bool {
	return xsync.DoR1(ctx, &f.locker, func() bool {
		_, ok := f.payload.(*Materialized)
		return ok
	})
}

// Materialize converts the native frame into the encoded image. It is a
// no-op if the frame is already materialized. On failure the frame stays
// native and the call may be retried.
func (f *Frame) Materialize(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Materialize")
	defer func() { logger.Tracef(ctx, "/Materialize: %v", _err) }()
	return xsync.DoR1(ctx, &f.locker, func() error {
		return f.materializeLocked(ctx)
	})
}

func (f *Frame) materializeLocked(ctx context.Context) error {
	switch p := f.payload.(type) {
	case *Materialized:
		return nil
	case *Native:
		data, err := f.converter.Materialize(ctx, p, f.transparent)
		if err != nil {
			return ErrConversionFailed{Reason: p.Source, Err: err}
		}
		logger.Debugf(ctx, "materialized %s: %s (estimated %s)", p.Source, humanize.Bytes(uint64(len(data))), humanize.Bytes(p.EstimatedSize))
		f.payload = &Materialized{
			Data:        data,
			Transparent: f.transparent,
		}
		p.release()
		return nil
	default:
		return ErrInvalidState{}
	}
}

// Data returns the encoded image. The returned slice is shared and must
// not be modified.
func (f *Frame) Data(ctx context.Context) (_ret []byte, _err error) {
	_err = xsync.DoR1(ctx, &f.locker, func() error {
		switch p := f.payload.(type) {
		case *Materialized:
			_ret = p.Data
			return nil
		case *Native:
			return ErrNotReady{Source: p.Source}
		default:
			return ErrInvalidState{}
		}
	})
	return
}

// Size returns the estimated decoded size while the frame is native and
// the exact encoded size once it is materialized.
func (f *Frame) Size(ctx context.Context) uint64 {
	return xsync.DoR1(ctx, &f.locker, func() uint64 {
		switch p := f.payload.(type) {
		case *Materialized:
			return uint64(len(p.Data))
		case *Native:
			return p.EstimatedSize
		default:
			return 0
		}
	})
}
