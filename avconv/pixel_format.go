package avconv

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avstill/pixfmt"
)

func PixelFormatToAstiav(f pixfmt.PixelFormat) astiav.PixelFormat {
	if f == pixfmt.Unknown {
		return astiav.PixelFormatNone
	}
	return astiav.FindPixelFormatByName(string(f))
}

func PixelFormatFromAstiav(f astiav.PixelFormat) pixfmt.PixelFormat {
	if f == astiav.PixelFormatNone {
		return pixfmt.Unknown
	}
	return pixfmt.PixelFormat(f.Name())
}
