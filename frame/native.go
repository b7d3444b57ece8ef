package frame

import (
	"fmt"

	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/rotate"
	"github.com/xaionaro-go/avstill/tonemap"
)

// Native is a decoded frame which is not converted yet.
type Native struct {
	OriginalWidth  int
	OriginalHeight int
	TargetWidth    int
	TargetHeight   int
	Rotation       rotate.Rotation

	// Source identifies where the frame came from (a file path or a URL);
	// used only in diagnostics.
	Source string

	// Picture is the decoded image: pixel format, planes and strides.
	Picture picture.Picture

	// EstimatedSize is the memory footprint reported until the frame is
	// materialized.
	EstimatedSize uint64

	ToneMapped bool
	ToneMap    tonemap.Config
}

func (*Native) isPayload() {}

func (n *Native) String() string {
	return fmt.Sprintf(
		"Native(%s: %dx%d -> %dx%d, %s, %s)",
		n.Source, n.OriginalWidth, n.OriginalHeight,
		n.TargetWidth, n.TargetHeight, n.Rotation, n.Picture.Format,
	)
}

// Validate checks the geometry of the frame.
func (n *Native) Validate() error {
	if n.OriginalWidth <= 0 || n.OriginalHeight <= 0 {
		return ErrInvalidDimensions{Width: n.OriginalWidth, Height: n.OriginalHeight}
	}
	if n.TargetWidth <= 0 || n.TargetHeight <= 0 {
		return ErrInvalidDimensions{Width: n.TargetWidth, Height: n.TargetHeight}
	}
	switch n.Rotation {
	case rotate.Rotate0, rotate.Rotate90, rotate.Rotate180, rotate.Rotate270:
	default:
		return fmt.Errorf("invalid rotation %d", int(n.Rotation))
	}
	return nil
}

// OutputDimensions returns the geometry of the image the frame
// materializes into.
func (n *Native) OutputDimensions() (int, int) {
	return n.Rotation.Dimensions(n.TargetWidth, n.TargetHeight)
}

func (n *Native) release() {
	n.Picture.Planes = nil
}
