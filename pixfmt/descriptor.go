package pixfmt

import (
	"fmt"
)

// Descriptor is the memory layout of a pixel format.
type Descriptor struct {
	Planes int

	// BytesPerSample is the storage size of a single component sample.
	BytesPerSample int

	// Log2ChromaW and Log2ChromaH are the chroma subsampling shifts.
	Log2ChromaW int
	Log2ChromaH int

	// PackedComponents is non-zero for single-plane packed formats and
	// equals the amount of components per pixel.
	PackedComponents int

	// InterleavedChroma is set for semi-planar formats (NV12 and alike),
	// where plane 1 holds U and V samples interleaved.
	InterleavedChroma bool
}

var descriptors = map[PixelFormat]Descriptor{
	YUV420P:      {Planes: 3, BytesPerSample: 1, Log2ChromaW: 1, Log2ChromaH: 1},
	YUVJ420P:     {Planes: 3, BytesPerSample: 1, Log2ChromaW: 1, Log2ChromaH: 1},
	YUV422P:      {Planes: 3, BytesPerSample: 1, Log2ChromaW: 1},
	YUV444P:      {Planes: 3, BytesPerSample: 1},
	YUV420P10LE:  {Planes: 3, BytesPerSample: 2, Log2ChromaW: 1, Log2ChromaH: 1},
	YUV422P10LE:  {Planes: 3, BytesPerSample: 2, Log2ChromaW: 1},
	YUV444P10LE:  {Planes: 3, BytesPerSample: 2},
	YUV420P12LE:  {Planes: 3, BytesPerSample: 2, Log2ChromaW: 1, Log2ChromaH: 1},
	YUV444P12LE:  {Planes: 3, BytesPerSample: 2},
	NV12:         {Planes: 2, BytesPerSample: 1, Log2ChromaW: 1, Log2ChromaH: 1, InterleavedChroma: true},
	P010LE:       {Planes: 2, BytesPerSample: 2, Log2ChromaW: 1, Log2ChromaH: 1, InterleavedChroma: true},
	Gray:         {Planes: 1, BytesPerSample: 1},
	YUVA420P:     {Planes: 4, BytesPerSample: 1, Log2ChromaW: 1, Log2ChromaH: 1},
	YUVA444P10LE: {Planes: 4, BytesPerSample: 2},
	YUVA444P12LE: {Planes: 4, BytesPerSample: 2},
	RGB24:        {Planes: 1, BytesPerSample: 1, PackedComponents: 3},
	BGR24:        {Planes: 1, BytesPerSample: 1, PackedComponents: 3},
	RGBA:         {Planes: 1, BytesPerSample: 1, PackedComponents: 4},
	BGRA:         {Planes: 1, BytesPerSample: 1, PackedComponents: 4},
}

// Describe returns the layout of the pixel format.
func Describe(f PixelFormat) (Descriptor, error) {
	d, ok := descriptors[f]
	if !ok {
		return Descriptor{}, ErrUnsupportedFormat{Format: f}
	}
	return d, nil
}

// IsSupported reports whether the layout of the format is known.
func IsSupported(f PixelFormat) bool {
	_, ok := descriptors[f]
	return ok
}

// BytesPerPixel returns the pixel size of a packed format, or 0 for
// planar ones.
func BytesPerPixel(f PixelFormat) int {
	d := descriptors[f]
	return d.PackedComponents * d.BytesPerSample
}

func (d Descriptor) isChromaPlane(plane int) bool {
	return d.PackedComponents == 0 && (plane == 1 || plane == 2)
}

func ceilShift(v, shift int) int {
	return -((-v) >> shift)
}

// PlaneHeight returns the amount of rows in the given plane.
func (d Descriptor) PlaneHeight(plane, height int) int {
	if d.isChromaPlane(plane) {
		return ceilShift(height, d.Log2ChromaH)
	}
	return height
}

// PlaneRowSize returns the tight (unpadded) row size in bytes of the given
// plane.
func (d Descriptor) PlaneRowSize(plane, width int) int {
	switch {
	case d.PackedComponents > 0:
		return width * d.PackedComponents * d.BytesPerSample
	case d.isChromaPlane(plane):
		w := ceilShift(width, d.Log2ChromaW) * d.BytesPerSample
		if d.InterleavedChroma {
			w *= 2
		}
		return w
	default:
		return width * d.BytesPerSample
	}
}

// PlaneSize returns the tight size in bytes of the given plane.
func (d Descriptor) PlaneSize(plane, width, height int) int {
	return d.PlaneRowSize(plane, width) * d.PlaneHeight(plane, height)
}

// EstimateSize returns the approximate amount of bytes a decoded frame of
// the given geometry occupies. Unknown formats are estimated as 4 bytes
// per pixel, which is an upper bound for every format above except the
// 16-bit 4:4:4 ones.
func EstimateSize(f PixelFormat, width, height int) uint64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	d, ok := descriptors[f]
	if !ok {
		return uint64(width) * uint64(height) * 4
	}
	var total uint64
	for plane := 0; plane < d.Planes; plane++ {
		total += uint64(d.PlaneSize(plane, width, height))
	}
	return total
}

type ErrUnsupportedFormat struct {
	Format PixelFormat
}

func (e ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported pixel format '%s'", e.Format)
}
