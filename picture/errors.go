package picture

import "fmt"

type ErrInvalidDimensions struct {
	Width  int
	Height int
}

func (e ErrInvalidDimensions) Error() string {
	return fmt.Sprintf("invalid dimensions %dx%d", e.Width, e.Height)
}

type ErrBufferTooSmall struct {
	Plane int
	Size  int
	Need  int
}

func (e ErrBufferTooSmall) Error() string {
	return fmt.Sprintf("plane %d is too small: %d < %d", e.Plane, e.Size, e.Need)
}
