// Package avconv converts between libav (go-astiav) values and avstill
// values: pixel formats, frames, pictures and timestamps.
package avconv

import (
	"math"
	"time"

	"github.com/asticode/go-astiav"
)

// AV_NOPTS_VALUE
const noPTS = math.MinInt64

// NoTimestamp is returned for frames without a presentation timestamp.
const NoTimestamp = time.Duration(math.MinInt64)

// Timestamp converts ts expressed in timeBase units into a duration.
func Timestamp(ts int64, timeBase astiav.Rational) time.Duration {
	if ts == noPTS || timeBase.Den() == 0 {
		return NoTimestamp
	}
	return time.Duration(float64(ts) * timeBase.Float64() * float64(time.Second))
}

// FrameTimestamp returns the presentation time of a decoded frame.
func FrameTimestamp(f *astiav.Frame, timeBase astiav.Rational) time.Duration {
	return Timestamp(f.Pts(), timeBase)
}
