// picture.go defines plane buffer descriptors.

// Package picture describes raw pixel buffers as owned byte slices with
// explicit row strides.
package picture

import (
	"fmt"

	"github.com/xaionaro-go/avstill/pixfmt"
)

// Plane is a single plane of an image. Stride is the distance in bytes
// between the starts of two consecutive rows and may exceed the row size.
type Plane struct {
	Data   []byte
	Stride int
}

func (p Plane) Clone() Plane {
	return Plane{
		Data:   append([]byte(nil), p.Data...),
		Stride: p.Stride,
	}
}

// Row returns the first rowSize bytes of row y.
func (p Plane) Row(y, rowSize int) []byte {
	start := y * p.Stride
	return p.Data[start : start+rowSize]
}

// Picture is a (possibly planar) image.
type Picture struct {
	Format pixfmt.PixelFormat
	Width  int
	Height int
	Planes []Plane
}

func (p Picture) String() string {
	return fmt.Sprintf("Picture(%dx%d:%s, planes:%d)", p.Width, p.Height, p.Format, len(p.Planes))
}

// Clone returns a deep copy of the picture; the result shares no memory
// with the original.
func (p Picture) Clone() Picture {
	planes := make([]Plane, len(p.Planes))
	for i, plane := range p.Planes {
		planes[i] = plane.Clone()
	}
	p.Planes = planes
	return p
}

// Strides returns the per-plane stride array.
func (p Picture) Strides() []int {
	r := make([]int, len(p.Planes))
	for i, plane := range p.Planes {
		r[i] = plane.Stride
	}
	return r
}

// Size returns the total amount of bytes held by the planes.
func (p Picture) Size() int {
	var total int
	for _, plane := range p.Planes {
		total += len(plane.Data)
	}
	return total
}

// Validate checks that every plane described by the pixel format is
// present and is large enough to hold all of its rows.
func (p Picture) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return ErrInvalidDimensions{Width: p.Width, Height: p.Height}
	}
	d, err := pixfmt.Describe(p.Format)
	if err != nil {
		return err
	}
	if len(p.Planes) < d.Planes {
		return fmt.Errorf("expected %d planes for format '%s', got %d", d.Planes, p.Format, len(p.Planes))
	}
	for idx := 0; idx < d.Planes; idx++ {
		plane := p.Planes[idx]
		rowSize := d.PlaneRowSize(idx, p.Width)
		rows := d.PlaneHeight(idx, p.Height)
		if plane.Stride < rowSize {
			return fmt.Errorf("plane %d: stride %d is less than the row size %d", idx, plane.Stride, rowSize)
		}
		if need := (rows-1)*plane.Stride + rowSize; len(plane.Data) < need {
			return ErrBufferTooSmall{Plane: idx, Size: len(plane.Data), Need: need}
		}
	}
	return nil
}

// New allocates a zero-filled picture with tightly packed planes.
func New(format pixfmt.PixelFormat, width, height int) (Picture, error) {
	if width <= 0 || height <= 0 {
		return Picture{}, ErrInvalidDimensions{Width: width, Height: height}
	}
	d, err := pixfmt.Describe(format)
	if err != nil {
		return Picture{}, err
	}
	p := Picture{
		Format: format,
		Width:  width,
		Height: height,
		Planes: make([]Plane, d.Planes),
	}
	for idx := range p.Planes {
		stride := d.PlaneRowSize(idx, width)
		p.Planes[idx] = Plane{
			Data:   make([]byte, stride*d.PlaneHeight(idx, height)),
			Stride: stride,
		}
	}
	return p, nil
}
