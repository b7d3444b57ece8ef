package avconv

import (
	"github.com/asticode/go-astiav"
)

// FindVideoStream returns the first video stream of the input, or nil.
func FindVideoStream(
	fmtCtx *astiav.FormatContext,
) *astiav.Stream {
	for _, stream := range fmtCtx.Streams() {
		if stream.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			return stream
		}
	}
	return nil
}
