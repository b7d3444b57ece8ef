package rotate

import (
	"fmt"

	"github.com/xaionaro-go/avstill/picture"
)

// Result is a rotated buffer and its geometry.
type Result struct {
	picture.Plane
	Width  int
	Height int
}

// RoundUp4 rounds n up to the next multiple of 4.
func RoundUp4(n int) int {
	return (n + 3) &^ 3
}

type ErrBufferTooSmall struct {
	Size int
	Need int
}

func (e ErrBufferTooSmall) Error() string {
	return fmt.Sprintf("the buffer is too small: %d < %d", e.Size, e.Need)
}

// Apply rotates a packed image of bytesPerPixel-sized pixels clockwise.
//
// Rotate0 returns the input plane as is. Every other rotation writes into
// a freshly allocated zeroed buffer of Stride*Height bytes; for Rotate90
// and Rotate270 the stride of the output is the rotated row size rounded
// up to a multiple of 4, for Rotate180 the input stride is kept.
func Apply(
	src picture.Plane,
	width, height int,
	bytesPerPixel int,
	rotation Rotation,
) (Result, error) {
	if width <= 0 || height <= 0 {
		return Result{}, picture.ErrInvalidDimensions{Width: width, Height: height}
	}
	if bytesPerPixel <= 0 {
		return Result{}, fmt.Errorf("invalid pixel size: %d", bytesPerPixel)
	}
	rowSize := width * bytesPerPixel
	if src.Stride < rowSize {
		return Result{}, fmt.Errorf("stride %d is less than the row size %d", src.Stride, rowSize)
	}
	if need := (height-1)*src.Stride + rowSize; len(src.Data) < need {
		return Result{}, ErrBufferTooSmall{Size: len(src.Data), Need: need}
	}

	switch rotation {
	case Rotate0:
		return Result{Plane: src, Width: width, Height: height}, nil
	case Rotate90:
		return rotate90(src, width, height, bytesPerPixel), nil
	case Rotate180:
		return rotate180(src, width, height, bytesPerPixel), nil
	case Rotate270:
		return rotate270(src, width, height, bytesPerPixel), nil
	default:
		return Result{}, fmt.Errorf("unknown rotation %d", int(rotation))
	}
}

func rotate90(src picture.Plane, width, height, bpp int) Result {
	newWidth, newHeight := height, width
	newStride := RoundUp4(newWidth * bpp)
	dst := make([]byte, newStride*newHeight)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			newX := height - 1 - y
			newY := x
			newIdx := newY*newStride + newX*bpp
			oldIdx := y*src.Stride + x*bpp
			copy(dst[newIdx:newIdx+bpp], src.Data[oldIdx:oldIdx+bpp])
		}
	}
	return Result{
		Plane:  picture.Plane{Data: dst, Stride: newStride},
		Width:  newWidth,
		Height: newHeight,
	}
}

func rotate180(src picture.Plane, width, height, bpp int) Result {
	dst := make([]byte, src.Stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			newX := width - 1 - x
			newY := height - 1 - y
			newIdx := newY*src.Stride + newX*bpp
			oldIdx := y*src.Stride + x*bpp
			copy(dst[newIdx:newIdx+bpp], src.Data[oldIdx:oldIdx+bpp])
		}
	}
	return Result{
		Plane:  picture.Plane{Data: dst, Stride: src.Stride},
		Width:  width,
		Height: height,
	}
}

// rotate270 addresses output rows by the padded stride, the same way
// rotate90 does; addressing by the unpadded source height corrupts any
// image whose rotated row size is not a multiple of 4.
func rotate270(src picture.Plane, width, height, bpp int) Result {
	newWidth, newHeight := height, width
	newStride := RoundUp4(newWidth * bpp)
	dst := make([]byte, newStride*newHeight)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			newX := y
			newY := width - 1 - x
			newIdx := newY*newStride + newX*bpp
			oldIdx := y*src.Stride + x*bpp
			copy(dst[newIdx:newIdx+bpp], src.Data[oldIdx:oldIdx+bpp])
		}
	}
	return Result{
		Plane:  picture.Plane{Data: dst, Stride: newStride},
		Width:  newWidth,
		Height: newHeight,
	}
}
