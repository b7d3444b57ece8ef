package converter

import (
	"go.uber.org/atomic"
)

type Statistics struct {
	FramesMaterialized    atomic.Uint64
	FramesToneMapped      atomic.Uint64
	BMPImages             atomic.Uint64
	PNGImages             atomic.Uint64
	TransparencyFallbacks atomic.Uint64
	Failures              atomic.Uint64
}

type StatisticsSnapshot struct {
	FramesMaterialized    uint64
	FramesToneMapped      uint64
	BMPImages             uint64
	PNGImages             uint64
	TransparencyFallbacks uint64
	Failures              uint64
}

func (stats *Statistics) Snapshot() StatisticsSnapshot {
	return StatisticsSnapshot{
		FramesMaterialized:    stats.FramesMaterialized.Load(),
		FramesToneMapped:      stats.FramesToneMapped.Load(),
		BMPImages:             stats.BMPImages.Load(),
		PNGImages:             stats.PNGImages.Load(),
		TransparencyFallbacks: stats.TransparencyFallbacks.Load(),
		Failures:              stats.Failures.Load(),
	}
}
