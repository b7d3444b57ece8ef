// encoder.go implements PNG encoding of RGBA buffers.

// Package pngencoder encodes packed RGBA buffers as PNG images.
package pngencoder

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/xaionaro-go/avstill/logger"
	"github.com/xaionaro-go/avstill/picture"
)

// Encoder encodes non-premultiplied RGBA pixels as PNG.
type Encoder struct{}

func (Encoder) String() string {
	return "PNG"
}

func (Encoder) EncodePNG(
	ctx context.Context,
	rgba picture.Plane,
	width, height int,
) (_ret []byte, _err error) {
	logger.Tracef(ctx, "EncodePNG(%dx%d)", width, height)
	defer func() { logger.Tracef(ctx, "/EncodePNG(%dx%d): len:%d, %v", width, height, len(_ret), _err) }()

	img, err := NRGBA(rgba, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("unable to encode a %dx%d PNG: %w", width, height, err)
	}
	return buf.Bytes(), nil
}

// NRGBA wraps the buffer as an image without copying it. The scaler
// produces straight (non-premultiplied) alpha, so the image is
// image.NRGBA rather than image.RGBA.
func NRGBA(rgba picture.Plane, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, picture.ErrInvalidDimensions{Width: width, Height: height}
	}
	rowSize := width * 4
	if rgba.Stride < rowSize {
		return nil, fmt.Errorf("stride %d is less than the row size %d", rgba.Stride, rowSize)
	}
	need := (height-1)*rgba.Stride + rowSize
	if len(rgba.Data) < need {
		return nil, fmt.Errorf("the buffer is too small: %d < %d", len(rgba.Data), need)
	}
	return &image.NRGBA{
		Pix:    rgba.Data[:need],
		Stride: rgba.Stride,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}
