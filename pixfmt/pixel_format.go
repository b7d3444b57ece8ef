// pixel_format.go defines pixel-format tags and the alpha allow-list.

// Package pixfmt describes the pixel formats a decoded frame may arrive in.
package pixfmt

// PixelFormat is the FFmpeg name of a pixel format (e.g. "yuv420p").
type PixelFormat string

const (
	Unknown = PixelFormat("")

	YUV420P     = PixelFormat("yuv420p")
	YUVJ420P    = PixelFormat("yuvj420p")
	YUV422P     = PixelFormat("yuv422p")
	YUV444P     = PixelFormat("yuv444p")
	YUV420P10LE = PixelFormat("yuv420p10le")
	YUV422P10LE = PixelFormat("yuv422p10le")
	YUV444P10LE = PixelFormat("yuv444p10le")
	YUV420P12LE = PixelFormat("yuv420p12le")
	YUV444P12LE = PixelFormat("yuv444p12le")
	NV12        = PixelFormat("nv12")
	P010LE      = PixelFormat("p010le")
	Gray        = PixelFormat("gray")

	YUVA420P     = PixelFormat("yuva420p")
	YUVA444P10LE = PixelFormat("yuva444p10le")
	YUVA444P12LE = PixelFormat("yuva444p12le")

	RGB24 = PixelFormat("rgb24")
	BGR24 = PixelFormat("bgr24")
	RGBA  = PixelFormat("rgba")
	BGRA  = PixelFormat("bgra")
)

func (f PixelFormat) String() string {
	if f == Unknown {
		return "unknown"
	}
	return string(f)
}

// HasAlpha reports whether the format is one of the formats recognized as
// carrying a real alpha plane. The list is closed: any other format is
// treated as opaque even if FFmpeg knows an alpha variant of it.
func HasAlpha(f PixelFormat) bool {
	switch f {
	case YUVA420P, YUVA444P10LE, YUVA444P12LE:
		return true
	}
	return false
}

// Destination returns the packed format the scaler should produce.
func Destination(transparent bool) PixelFormat {
	if transparent {
		return RGBA
	}
	return BGR24
}
