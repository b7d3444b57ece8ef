package scaler

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avstill/avconv"
	"github.com/xaionaro-go/avstill/helpers/closuresignaler"
	"github.com/xaionaro-go/avstill/internal"
	"github.com/xaionaro-go/avstill/logger"
	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/pixfmt"
)

type Software struct {
	*astiav.SoftwareScaleContext
	*closuresignaler.ClosureSignaler
	srcFormat pixfmt.PixelFormat
	dstFormat pixfmt.PixelFormat
}

var _ Scaler = (*Software)(nil)

func NewSoftware(
	ctx context.Context,
	srcWidth, srcHeight int,
	srcFormat pixfmt.PixelFormat,
	dstWidth, dstHeight int,
	dstFormat pixfmt.PixelFormat,
	opts ...astiav.SoftwareScaleContextFlag,
) (*Software, error) {
	swSCtx, err := astiav.CreateSoftwareScaleContext(
		srcWidth,
		srcHeight,
		avconv.PixelFormatToAstiav(srcFormat),
		dstWidth,
		dstHeight,
		avconv.PixelFormatToAstiav(dstFormat),
		astiav.NewSoftwareScaleContextFlags(opts...),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create a software scale context: %w", err)
	}
	internal.SetFinalizerFree(ctx, swSCtx)
	return &Software{
		SoftwareScaleContext: swSCtx,
		ClosureSignaler:      closuresignaler.New(),
		srcFormat:            srcFormat,
		dstFormat:            dstFormat,
	}, nil
}

func (s *Software) String() string {
	return fmt.Sprintf(
		"SoftwareScaler(%dx%d:%s -> %dx%d:%s)",
		s.SoftwareScaleContext.SourceWidth(),
		s.SoftwareScaleContext.SourceHeight(),
		s.srcFormat,
		s.SoftwareScaleContext.DestinationWidth(),
		s.SoftwareScaleContext.DestinationHeight(),
		s.dstFormat,
	)
}

func (s *Software) Close(ctx context.Context) error {
	logger.Tracef(ctx, "Close")
	defer logger.Tracef(ctx, "/Close")
	s.ClosureSignaler.Close(ctx)
	return nil
}

// Scale converts src into a tightly packed picture of the destination
// format and size.
func (s *Software) Scale(
	ctx context.Context,
	src picture.Picture,
) (_ret picture.Picture, _err error) {
	logger.Tracef(ctx, "Scale(%s)", src)
	defer func() { logger.Tracef(ctx, "/Scale(%s): %s, %v", src, _ret, _err) }()
	if err := s.CheckOpen(s); err != nil {
		return picture.Picture{}, err
	}
	if src.Format != s.srcFormat {
		return picture.Picture{}, fmt.Errorf("expected source format %s, got %s", s.srcFormat, src.Format)
	}
	if src.Width != s.SoftwareScaleContext.SourceWidth() || src.Height != s.SoftwareScaleContext.SourceHeight() {
		return picture.Picture{}, fmt.Errorf(
			"expected a %dx%d source, got %dx%d",
			s.SoftwareScaleContext.SourceWidth(), s.SoftwareScaleContext.SourceHeight(),
			src.Width, src.Height,
		)
	}

	srcFrame, err := avconv.PictureToFrame(src)
	if err != nil {
		return picture.Picture{}, fmt.Errorf("unable to prepare the source frame: %w", err)
	}
	defer avconv.FramePool.Put(srcFrame)

	dstFrame := avconv.FramePool.Get()
	defer avconv.FramePool.Put(dstFrame)
	dstFrame.SetWidth(s.SoftwareScaleContext.DestinationWidth())
	dstFrame.SetHeight(s.SoftwareScaleContext.DestinationHeight())
	dstFrame.SetPixelFormat(avconv.PixelFormatToAstiav(s.dstFormat))
	if err := dstFrame.AllocBuffer(0); err != nil {
		return picture.Picture{}, fmt.Errorf("unable to allocate the destination frame: %w", err)
	}

	if err := s.SoftwareScaleContext.ScaleFrame(srcFrame, dstFrame); err != nil {
		return picture.Picture{}, fmt.Errorf("unable to scale a frame: %w", err)
	}
	return avconv.PictureFromFrame(dstFrame)
}

func (s *Software) SourcePixelFormat() pixfmt.PixelFormat {
	return s.srcFormat
}

func (s *Software) DestinationPixelFormat() pixfmt.PixelFormat {
	return s.dstFormat
}
