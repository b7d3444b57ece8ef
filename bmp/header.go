package bmp

import (
	"encoding/binary"
	"fmt"
)

// Header is the subset of BMP header fields this package writes.
type Header struct {
	FileSize        uint32
	DataOffset      uint32
	InfoSize        uint32
	Width           uint32
	Height          uint32
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	XPixelsPerM     uint32
	YPixelsPerM     uint32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// ParseHeader reads the header of an encoded BMP image and checks that it
// is consistent with the image length.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("too short for a BMP header: %d < %d", len(b), HeaderSize)
	}
	if string(b[0:2]) != "BM" {
		return Header{}, fmt.Errorf("invalid signature %q", b[0:2])
	}
	le := binary.LittleEndian
	h := Header{
		FileSize:        le.Uint32(b[2:]),
		DataOffset:      le.Uint32(b[10:]),
		InfoSize:        le.Uint32(b[14:]),
		Width:           le.Uint32(b[18:]),
		Height:          le.Uint32(b[22:]),
		Planes:          le.Uint16(b[26:]),
		BitsPerPixel:    le.Uint16(b[28:]),
		Compression:     le.Uint32(b[30:]),
		ImageSize:       le.Uint32(b[34:]),
		XPixelsPerM:     le.Uint32(b[38:]),
		YPixelsPerM:     le.Uint32(b[42:]),
		ColorsUsed:      le.Uint32(b[46:]),
		ColorsImportant: le.Uint32(b[50:]),
	}
	if int(h.FileSize) != len(b) {
		return h, fmt.Errorf("file size field %d does not match the length %d", h.FileSize, len(b))
	}
	if h.InfoSize != infoHeaderSize {
		return h, fmt.Errorf("unexpected info header size %d", h.InfoSize)
	}
	if h.BitsPerPixel != bitsPerPixel {
		return h, fmt.Errorf("unexpected bits per pixel %d", h.BitsPerPixel)
	}
	if int(h.ImageSize) != RowSize(int(h.Width))*int(h.Height) {
		return h, fmt.Errorf("image size field %d does not match %dx%d", h.ImageSize, h.Width, h.Height)
	}
	return h, nil
}
