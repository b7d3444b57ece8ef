// rotation.go defines the supported rotation angles.

// Package rotate remaps packed pixel buffers by multiples of 90 degrees.
package rotate

import (
	"fmt"
)

type Rotation int

const (
	Rotate0 = Rotation(iota)
	Rotate90
	Rotate180
	Rotate270
)

// FromDegrees converts a clockwise angle into a Rotation. Negative angles
// and angles beyond 360 are normalized; angles not divisible by 90 are
// rejected.
func FromDegrees(degrees int) (Rotation, error) {
	if degrees%90 != 0 {
		return Rotate0, ErrUnsupportedRotation{Degrees: degrees}
	}
	return Rotation(((degrees/90)%4 + 4) % 4), nil
}

func (r Rotation) Degrees() int {
	return int(r) * 90
}

// SwapsDimensions reports whether the rotation exchanges width and height.
func (r Rotation) SwapsDimensions() bool {
	return r == Rotate90 || r == Rotate270
}

// Dimensions returns the geometry of a width x height image after the
// rotation.
func (r Rotation) Dimensions(width, height int) (int, int) {
	if r.SwapsDimensions() {
		return height, width
	}
	return width, height
}

func (r Rotation) String() string {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return fmt.Sprintf("%d°", r.Degrees())
	default:
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
}

type ErrUnsupportedRotation struct {
	Degrees int
}

func (e ErrUnsupportedRotation) Error() string {
	return fmt.Sprintf("unsupported rotation: %d degrees (must be a multiple of 90)", e.Degrees)
}
