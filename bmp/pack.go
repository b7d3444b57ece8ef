package bmp

import (
	"fmt"

	"github.com/xaionaro-go/avstill/picture"
)

// PackBGR converts packed RGBA pixels into tightly packed BGR triplets,
// dropping alpha.
func PackBGR(src picture.Plane, width, height int) (picture.Plane, error) {
	if width <= 0 || height <= 0 {
		return picture.Plane{}, picture.ErrInvalidDimensions{Width: width, Height: height}
	}
	if need := (height-1)*src.Stride + width*4; src.Stride < width*4 || len(src.Data) < need {
		return picture.Plane{}, fmt.Errorf("RGBA buffer of %d bytes with stride %d cannot hold %dx%d", len(src.Data), src.Stride, width, height)
	}
	stride := width * bytesPerPixel
	dst := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		in := src.Row(y, width*4)
		out := dst[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			out[x*3+0] = in[x*4+2]
			out[x*3+1] = in[x*4+1]
			out[x*3+2] = in[x*4+0]
		}
	}
	return picture.Plane{Data: dst, Stride: stride}, nil
}
