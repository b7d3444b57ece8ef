// Package resizer is a cgo-free bilinear scaler on top of
// golang.org/x/image/draw.
//
// YUV sources are converted with the JFIF (full-range BT.601) equations of
// image/color, so colors of limited-range video are slightly off compared
// to libswscale. Use scaler.Bilinear where exact colors matter.
package resizer

import (
	"context"
	"fmt"
	"image"

	"github.com/xaionaro-go/avstill/logger"
	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/pixfmt"
	"golang.org/x/image/draw"
)

type Resizer struct {
	// Interpolator is draw.BiLinear if nil.
	Interpolator draw.Interpolator
}

func (r Resizer) String() string {
	return "Resizer"
}

func (r Resizer) Scale(
	ctx context.Context,
	src picture.Picture,
	dstFormat pixfmt.PixelFormat,
	width, height int,
) (_ret picture.Picture, _err error) {
	logger.Tracef(ctx, "Scale(%s -> %dx%d:%s)", src, width, height, dstFormat)
	defer func() { logger.Tracef(ctx, "/Scale(%s -> %dx%d:%s): %v", src, width, height, dstFormat, _err) }()

	if width <= 0 || height <= 0 {
		return picture.Picture{}, picture.ErrInvalidDimensions{Width: width, Height: height}
	}
	switch dstFormat {
	case pixfmt.RGBA, pixfmt.BGR24:
	default:
		return picture.Picture{}, pixfmt.ErrUnsupportedFormat{Format: dstFormat}
	}
	if err := src.Validate(); err != nil {
		return picture.Picture{}, err
	}

	img, err := Image(src)
	if err != nil {
		return picture.Picture{}, err
	}

	interpolator := r.Interpolator
	if interpolator == nil {
		interpolator = draw.BiLinear
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	interpolator.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	if dstFormat == pixfmt.RGBA {
		return picture.Picture{
			Format: pixfmt.RGBA,
			Width:  width,
			Height: height,
			Planes: []picture.Plane{{Data: dst.Pix, Stride: dst.Stride}},
		}, nil
	}

	stride := width * 3
	bgr := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		in := dst.Pix[y*dst.Stride:]
		out := bgr[y*stride:]
		for x := 0; x < width; x++ {
			out[x*3+0] = in[x*4+2]
			out[x*3+1] = in[x*4+1]
			out[x*3+2] = in[x*4+0]
		}
	}
	return picture.Picture{
		Format: pixfmt.BGR24,
		Width:  width,
		Height: height,
		Planes: []picture.Plane{{Data: bgr, Stride: stride}},
	}, nil
}

// Image wraps (8-bit planar YUV, gray, RGBA) or converts (other packed
// RGB layouts) the picture into an image.Image.
func Image(pic picture.Picture) (image.Image, error) {
	rect := image.Rect(0, 0, pic.Width, pic.Height)
	switch pic.Format {
	case pixfmt.YUV420P, pixfmt.YUVJ420P:
		return ycbcr(pic, image.YCbCrSubsampleRatio420), nil
	case pixfmt.YUV422P:
		return ycbcr(pic, image.YCbCrSubsampleRatio422), nil
	case pixfmt.YUV444P:
		return ycbcr(pic, image.YCbCrSubsampleRatio444), nil
	case pixfmt.Gray:
		return &image.Gray{Pix: pic.Planes[0].Data, Stride: pic.Planes[0].Stride, Rect: rect}, nil
	case pixfmt.RGBA:
		return &image.NRGBA{Pix: pic.Planes[0].Data, Stride: pic.Planes[0].Stride, Rect: rect}, nil
	case pixfmt.RGB24, pixfmt.BGR24, pixfmt.BGRA:
		return packedToNRGBA(pic), nil
	}
	return nil, fmt.Errorf("%w: the resizer only handles 8-bit formats", pixfmt.ErrUnsupportedFormat{Format: pic.Format})
}

func ycbcr(pic picture.Picture, ratio image.YCbCrSubsampleRatio) *image.YCbCr {
	return &image.YCbCr{
		Y:              pic.Planes[0].Data,
		Cb:             pic.Planes[1].Data,
		Cr:             pic.Planes[2].Data,
		YStride:        pic.Planes[0].Stride,
		CStride:        pic.Planes[1].Stride,
		SubsampleRatio: ratio,
		Rect:           image.Rect(0, 0, pic.Width, pic.Height),
	}
}

func packedToNRGBA(pic picture.Picture) *image.NRGBA {
	bpp := pixfmt.BytesPerPixel(pic.Format)
	r, g, b, a := 0, 1, 2, -1
	switch pic.Format {
	case pixfmt.BGR24:
		r, b = 2, 0
	case pixfmt.BGRA:
		r, b, a = 2, 0, 3
	}

	img := image.NewNRGBA(image.Rect(0, 0, pic.Width, pic.Height))
	for y := 0; y < pic.Height; y++ {
		in := pic.Planes[0].Row(y, pic.Width*bpp)
		out := img.Pix[y*img.Stride:]
		for x := 0; x < pic.Width; x++ {
			px := in[x*bpp:]
			out[x*4+0] = px[r]
			out[x*4+1] = px[g]
			out[x*4+2] = px[b]
			out[x*4+3] = 0xFF
			if a >= 0 {
				out[x*4+3] = px[a]
			}
		}
	}
	return img
}
