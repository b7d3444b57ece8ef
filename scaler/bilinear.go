package scaler

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avstill/converter"
	"github.com/xaionaro-go/avstill/logger"
	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/pixfmt"
)

// Bilinear creates a bilinear Software scaler for every picture it is
// asked to convert; frames differ in geometry and format, so contexts are
// not reused.
type Bilinear struct{}

var _ converter.Scaler = Bilinear{}

func (Bilinear) String() string {
	return "BilinearScaler"
}

func (Bilinear) Scale(
	ctx context.Context,
	src picture.Picture,
	dstFormat pixfmt.PixelFormat,
	width, height int,
) (_ret picture.Picture, _err error) {
	logger.Tracef(ctx, "Scale(%s -> %dx%d:%s)", src, width, height, dstFormat)
	defer func() { logger.Tracef(ctx, "/Scale(%s -> %dx%d:%s): %v", src, width, height, dstFormat, _err) }()

	if !pixfmt.IsSupported(src.Format) {
		return picture.Picture{}, pixfmt.ErrUnsupportedFormat{Format: src.Format}
	}
	s, err := NewSoftware(
		ctx,
		src.Width, src.Height, src.Format,
		width, height, dstFormat,
		astiav.SoftwareScaleContextFlagBilinear,
	)
	if err != nil {
		return picture.Picture{}, err
	}
	defer func() {
		if err := s.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close %s: %v", s, err)
		}
	}()

	scaled, err := s.Scale(ctx, src)
	if err != nil {
		return picture.Picture{}, fmt.Errorf("%s: %w", s, err)
	}
	return scaled, nil
}
