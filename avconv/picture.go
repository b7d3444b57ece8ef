package avconv

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/pixfmt"
)

// PictureFromFrame copies the image of a video frame into Go memory. The
// planes of the result are tightly packed (stride == row size), and share
// no memory with the frame, so the frame may be unreferenced right after.
func PictureFromFrame(f *astiav.Frame) (picture.Picture, error) {
	format := PixelFormatFromAstiav(f.PixelFormat())
	d, err := pixfmt.Describe(format)
	if err != nil {
		return picture.Picture{}, err
	}
	width, height := f.Width(), f.Height()
	if width <= 0 || height <= 0 {
		return picture.Picture{}, picture.ErrInvalidDimensions{Width: width, Height: height}
	}

	buf, err := f.Data().Bytes(1)
	if err != nil {
		return picture.Picture{}, fmt.Errorf("unable to copy the frame data: %w", err)
	}

	pic := picture.Picture{
		Format: format,
		Width:  width,
		Height: height,
		Planes: make([]picture.Plane, d.Planes),
	}
	offset := 0
	for idx := range pic.Planes {
		size := d.PlaneSize(idx, width, height)
		if offset+size > len(buf) {
			return picture.Picture{}, fmt.Errorf("the frame data is too short for plane %d: %d < %d", idx, len(buf), offset+size)
		}
		pic.Planes[idx] = picture.Plane{
			Data:   buf[offset : offset+size : offset+size],
			Stride: d.PlaneRowSize(idx, width),
		}
		offset += size
	}
	return pic, nil
}

// tightBuffer concatenates the rows of every plane without padding, the
// layout av_image_copy_from_buffer expects with align == 1.
func tightBuffer(pic picture.Picture) ([]byte, error) {
	if err := pic.Validate(); err != nil {
		return nil, err
	}
	d, err := pixfmt.Describe(pic.Format)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, pixfmt.EstimateSize(pic.Format, pic.Width, pic.Height))
	for idx := 0; idx < d.Planes; idx++ {
		rowSize := d.PlaneRowSize(idx, pic.Width)
		plane := pic.Planes[idx]
		for y := 0; y < d.PlaneHeight(idx, pic.Height); y++ {
			buf = append(buf, plane.Row(y, rowSize)...)
		}
	}
	return buf, nil
}

// PictureToFrame allocates a pooled frame holding a copy of the picture.
// Return the frame to FramePool when done.
func PictureToFrame(pic picture.Picture) (_ret *astiav.Frame, _err error) {
	buf, err := tightBuffer(pic)
	if err != nil {
		return nil, err
	}

	f := FramePool.Get()
	defer func() {
		if _err != nil {
			FramePool.Put(f)
		}
	}()
	f.SetWidth(pic.Width)
	f.SetHeight(pic.Height)
	f.SetPixelFormat(PixelFormatToAstiav(pic.Format))
	if err := f.AllocBuffer(0); err != nil {
		return nil, fmt.Errorf("unable to allocate a %s frame buffer: %w", pic, err)
	}
	if err := f.MakeWritable(); err != nil {
		return nil, fmt.Errorf("unable to make the frame writable: %w", err)
	}
	if err := f.Data().SetBytes(buf, 1); err != nil {
		return nil, fmt.Errorf("unable to set the frame data: %w", err)
	}
	return f, nil
}
