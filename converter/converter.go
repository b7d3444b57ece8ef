// converter.go implements the conversion of a decoded frame into an
// encoded image.

// Package converter turns native frames into BMP or PNG images:
// tone mapping, scaling, rotation and encoding.
package converter

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avstill/bmp"
	"github.com/xaionaro-go/avstill/frame"
	"github.com/xaionaro-go/avstill/internal"
	"github.com/xaionaro-go/avstill/logger"
	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/pixfmt"
	"github.com/xaionaro-go/avstill/pngencoder"
	"github.com/xaionaro-go/avstill/rotate"
)

type Config struct {
	Scaler Scaler

	// ToneMapper is NoToneMapping if nil.
	ToneMapper ToneMapper

	// PNGEncoder is pngencoder.Encoder if nil.
	PNGEncoder PNGEncoder

	// WarningSink is LoggerWarningSink if nil.
	WarningSink WarningSink
}

type Converter struct {
	Config     Config
	Statistics Statistics
}

var _ frame.Converter = (*Converter)(nil)

func New(cfg Config) (*Converter, error) {
	if cfg.Scaler == nil {
		return nil, fmt.Errorf("a scaler is required")
	}
	if cfg.ToneMapper == nil {
		cfg.ToneMapper = NoToneMapping{}
	}
	if cfg.PNGEncoder == nil {
		cfg.PNGEncoder = pngencoder.Encoder{}
	}
	if cfg.WarningSink == nil {
		cfg.WarningSink = LoggerWarningSink{}
	}
	return &Converter{
		Config: cfg,
	}, nil
}

func (c *Converter) String() string {
	return "Converter"
}

// Materialize converts the native frame into a BMP image, or into a PNG
// image if transparent is set and the source pixel format has alpha.
// The native frame is not modified.
func (c *Converter) Materialize(
	ctx context.Context,
	native *frame.Native,
	transparent bool,
) (_ret []byte, _err error) {
	logger.Tracef(ctx, "Materialize(%v, %t)", native, transparent)
	defer func() {
		logger.Tracef(ctx, "/Materialize(%v, %t): len:%d, %v", native, transparent, len(_ret), _err)
		if _err != nil {
			c.Statistics.Failures.Inc()
		}
	}()

	if native == nil {
		return nil, ErrInvalidInput{Err: fmt.Errorf("native frame is nil")}
	}
	if err := native.Validate(); err != nil {
		return nil, ErrInvalidInput{Err: err}
	}
	srcFormat := native.Picture.Format

	src, err := c.toneMap(ctx, native)
	if err != nil {
		return nil, err
	}

	// the decoder may reuse its buffers once we return from here
	src = src.Clone()

	dstFormat := pixfmt.Destination(transparent)
	scaled, err := c.scale(ctx, src, dstFormat, native.TargetWidth, native.TargetHeight)
	if err != nil {
		return nil, err
	}

	rotated, err := rotate.Apply(
		scaled.Planes[0],
		scaled.Width, scaled.Height,
		pixfmt.BytesPerPixel(dstFormat),
		native.Rotation,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to rotate by %s: %w", native.Rotation, err)
	}
	internal.Assert(ctx, len(rotated.Data) >= rotated.Stride*rotated.Height, rotated.Stride, rotated.Height, len(rotated.Data))

	var out []byte
	switch {
	case transparent && pixfmt.HasAlpha(srcFormat):
		out, err = c.Config.PNGEncoder.EncodePNG(ctx, rotated.Plane, rotated.Width, rotated.Height)
		if err != nil {
			return nil, ErrEncoder{Err: err}
		}
		c.Statistics.PNGImages.Inc()
	case transparent:
		c.Config.WarningSink.Warn(ctx, fmt.Sprintf(
			"Requested transparent image, but the video %s is not transparent (pixel format %s). Returning BMP.",
			native.Source, srcFormat,
		))
		c.Statistics.TransparencyFallbacks.Inc()
		bgr, err := bmp.PackBGR(rotated.Plane, rotated.Width, rotated.Height)
		if err != nil {
			return nil, ErrEncoder{Err: err}
		}
		out, err = c.encodeBMP(bgr, rotated.Width, rotated.Height)
		if err != nil {
			return nil, err
		}
	default:
		out, err = c.encodeBMP(rotated.Plane, rotated.Width, rotated.Height)
		if err != nil {
			return nil, err
		}
	}

	c.Statistics.FramesMaterialized.Inc()
	return out, nil
}

func (c *Converter) toneMap(
	ctx context.Context,
	native *frame.Native,
) (picture.Picture, error) {
	if !native.ToneMapped {
		return native.Picture, nil
	}

	shouldApply, err := c.Config.ToneMapper.ShouldApply(ctx, native.ToneMap)
	if err != nil {
		return picture.Picture{}, ErrFilter{Err: fmt.Errorf("unable to check the filter graph %s: %w", native.ToneMap, err)}
	}
	if !shouldApply {
		logger.Debugf(ctx, "tone mapping of %s is not applicable: %s", native.Source, native.ToneMap)
		return native.Picture, nil
	}

	filtered, err := c.Config.ToneMapper.Apply(ctx, native.Picture, native.ToneMap)
	if err != nil {
		return picture.Picture{}, ErrFilter{Err: err}
	}
	if err := filtered.Validate(); err != nil {
		return picture.Picture{}, ErrFilter{Err: fmt.Errorf("the filter returned an invalid picture %s: %w", filtered, err)}
	}
	c.Statistics.FramesToneMapped.Inc()
	return filtered, nil
}

func (c *Converter) scale(
	ctx context.Context,
	src picture.Picture,
	dstFormat pixfmt.PixelFormat,
	width, height int,
) (picture.Picture, error) {
	scaled, err := c.Config.Scaler.Scale(ctx, src, dstFormat, width, height)
	if err != nil {
		return picture.Picture{}, ErrScaler{Err: err}
	}
	if scaled.Format != dstFormat || scaled.Width != width || scaled.Height != height || len(scaled.Planes) == 0 {
		return picture.Picture{}, ErrScaler{Err: fmt.Errorf(
			"expected a %dx%d:%s picture, received %s",
			width, height, dstFormat, scaled,
		)}
	}
	return scaled, nil
}

func (c *Converter) encodeBMP(
	src picture.Plane,
	width, height int,
) ([]byte, error) {
	out, err := bmp.Encode(src, width, height)
	if err != nil {
		return nil, ErrEncoder{Err: err}
	}
	c.Statistics.BMPImages.Inc()
	return out, nil
}
