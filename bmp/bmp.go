// bmp.go implements a minimal 24-bit BMP writer.

// Package bmp builds uncompressed bottom-up 24-bit BMP images.
package bmp

import (
	"encoding/binary"
	"fmt"

	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/rotate"
)

const (
	// HeaderSize is the size of BITMAPFILEHEADER + BITMAPINFOHEADER.
	HeaderSize = 54

	fileHeaderSize = 14
	infoHeaderSize = 40
	bitsPerPixel   = 24
	bytesPerPixel  = 3

	// PixelsPerMeter is ~72 DPI.
	PixelsPerMeter = 2835
)

// RowSize returns the padded size of a single row.
func RowSize(width int) int {
	return rotate.RoundUp4(width * bytesPerPixel)
}

// EncodedSize returns the total size of an encoded image.
func EncodedSize(width, height int) int {
	return HeaderSize + RowSize(width)*height
}

// Encode writes BGR24 pixels as a BMP image. Rows of the source are
// stride bytes apart; the output rows go from the last source row to the
// first and are zero-padded to a multiple of 4 bytes.
func Encode(src picture.Plane, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, picture.ErrInvalidDimensions{Width: width, Height: height}
	}
	tightRowSize := width * bytesPerPixel
	if src.Stride < tightRowSize {
		return nil, fmt.Errorf("stride %d is less than the row size %d", src.Stride, tightRowSize)
	}
	if need := (height-1)*src.Stride + tightRowSize; len(src.Data) < need {
		return nil, rotate.ErrBufferTooSmall{Size: len(src.Data), Need: need}
	}

	rowSize := RowSize(width)
	imageSize := rowSize * height
	out := make([]byte, HeaderSize, HeaderSize+imageSize)

	le := binary.LittleEndian
	copy(out[0:2], "BM")
	le.PutUint32(out[2:], uint32(HeaderSize+imageSize))
	le.PutUint16(out[6:], 0)
	le.PutUint16(out[8:], 0)
	le.PutUint32(out[10:], HeaderSize)

	le.PutUint32(out[14:], infoHeaderSize)
	le.PutUint32(out[18:], uint32(width))
	le.PutUint32(out[22:], uint32(height))
	le.PutUint16(out[26:], 1)
	le.PutUint16(out[28:], bitsPerPixel)
	le.PutUint32(out[30:], 0)
	le.PutUint32(out[34:], uint32(imageSize))
	le.PutUint32(out[38:], PixelsPerMeter)
	le.PutUint32(out[42:], PixelsPerMeter)
	le.PutUint32(out[46:], 0)
	le.PutUint32(out[50:], 0)

	padding := make([]byte, rowSize-tightRowSize)
	for y := height - 1; y >= 0; y-- {
		out = append(out, src.Row(y, tightRowSize)...)
		out = append(out, padding...)
	}
	return out, nil
}
