package avconv

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avstill/frame"
	"github.com/xaionaro-go/avstill/logger"
	"github.com/xaionaro-go/avstill/pixfmt"
	"github.com/xaionaro-go/avstill/rotate"
	"github.com/xaionaro-go/avstill/tonemap"
)

// NativeParams are the properties of a frame request which are not part
// of the decoded frame itself.
type NativeParams struct {
	Source string

	// TargetWidth and TargetHeight default to the frame dimensions.
	TargetWidth  int
	TargetHeight int

	Rotation   rotate.Rotation
	ToneMapped bool
}

// NewNative builds a native frame from a decoded frame. The image is
// copied, so the decoder is free to reuse f once this returns.
func NewNative(
	ctx context.Context,
	f *astiav.Frame,
	params NativeParams,
) (_ret *frame.Native, _err error) {
	logger.Tracef(ctx, "NewNative(%s)", params.Source)
	defer func() { logger.Tracef(ctx, "/NewNative(%s): %v, %v", params.Source, _ret, _err) }()

	if f == nil {
		return nil, fmt.Errorf("frame is nil")
	}
	pic, err := PictureFromFrame(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read the frame of %s: %w", params.Source, err)
	}

	n := &frame.Native{
		OriginalWidth:  pic.Width,
		OriginalHeight: pic.Height,
		TargetWidth:    params.TargetWidth,
		TargetHeight:   params.TargetHeight,
		Rotation:       params.Rotation,
		Source:         params.Source,
		Picture:        pic,
		EstimatedSize:  pixfmt.EstimateSize(pic.Format, pic.Width, pic.Height),
		ToneMapped:     params.ToneMapped,
		ToneMap:        ToneMapConfigFromFrame(f),
	}
	if n.TargetWidth == 0 {
		n.TargetWidth = pic.Width
	}
	if n.TargetHeight == 0 {
		n.TargetHeight = pic.Height
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// ToneMapConfigFromFrame describes the filter graph input from the color
// properties of the frame.
func ToneMapConfigFromFrame(f *astiav.Frame) tonemap.Config {
	timeBase := f.TimeBase()
	return tonemap.Config{
		Width:          f.Width(),
		Height:         f.Height(),
		PixelFormat:    PixelFormatFromAstiav(f.PixelFormat()),
		ColorPrimaries: f.ColorPrimaries().String(),
		ColorTransfer:  f.ColorTransferCharacteristic().String(),
		ColorSpace:     f.ColorSpace().String(),
		ColorRange:     f.ColorRange().String(),
		TimeBase: tonemap.Rational{
			Num: timeBase.Num(),
			Den: timeBase.Den(),
		},
	}
}
