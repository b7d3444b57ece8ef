// config.go defines the description of a tone-mapping filter graph.

// Package tonemap decides whether a decoded frame needs HDR->SDR
// tone mapping and describes the FFmpeg filter chain doing it.
package tonemap

import (
	"fmt"
	"strings"

	"github.com/xaionaro-go/avstill/pixfmt"
)

// Color characteristics use FFmpeg names (as printed by
// av_color_*_name), e.g. "bt2020", "smpte2084", "arib-std-b67".
const (
	PrimariesBT709  = "bt709"
	PrimariesBT2020 = "bt2020"

	TransferBT709 = "bt709"
	TransferPQ    = "smpte2084"
	TransferHLG   = "arib-std-b67"

	RangeTV = "tv"
	RangePC = "pc"
)

type Rational struct {
	Num int
	Den int
}

// Config is the filter-graph configuration a frame carries around until it
// is materialized.
type Config struct {
	Width          int
	Height         int
	PixelFormat    pixfmt.PixelFormat
	ColorPrimaries string
	ColorTransfer  string
	ColorSpace     string
	ColorRange     string
	TimeBase       Rational

	// OutputPixelFormat is the format of the filtered frames; yuv420p if
	// empty.
	OutputPixelFormat pixfmt.PixelFormat
}

func (cfg Config) String() string {
	return fmt.Sprintf(
		"ToneMap(%dx%d:%s, primaries:%s, transfer:%s, space:%s, range:%s)",
		cfg.Width, cfg.Height, cfg.PixelFormat,
		cfg.ColorPrimaries, cfg.ColorTransfer, cfg.ColorSpace, cfg.ColorRange,
	)
}

// Valid reports whether the config can describe a filter graph at all.
func (cfg Config) Valid() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.PixelFormat == pixfmt.Unknown {
		return fmt.Errorf("pixel format is not set")
	}
	return nil
}

// IsHDR reports whether the color characteristics describe an HDR signal.
func (cfg Config) IsHDR() bool {
	switch normalize(cfg.ColorTransfer) {
	case TransferPQ, TransferHLG:
		return true
	}
	return normalize(cfg.ColorPrimaries) == PrimariesBT2020
}

// ShouldFilter reports whether a tone-mapping graph built from the config
// would change anything. Invalid configs and SDR signals are not filtered.
func ShouldFilter(cfg Config) bool {
	if cfg.Valid() != nil {
		return false
	}
	return cfg.IsHDR()
}

func (cfg Config) outputPixelFormat() pixfmt.PixelFormat {
	if cfg.OutputPixelFormat != pixfmt.Unknown {
		return cfg.OutputPixelFormat
	}
	return pixfmt.YUV420P
}

// FilterDescription returns the FFmpeg filter chain converting the signal
// to linear light, tone mapping it (hable) in BT.709 primaries and
// converting it back to limited-range BT.709.
func (cfg Config) FilterDescription() string {
	return strings.Join([]string{
		"zscale=t=linear:npl=100",
		"format=gbrpf32le",
		"zscale=p=bt709",
		"tonemap=tonemap=hable:desat=0",
		"zscale=t=bt709:m=bt709:r=tv",
		"format=" + string(cfg.outputPixelFormat()),
	}, ",")
}

// GraphDescription is FilterDescription preceded by a setparams filter
// restoring the color characteristics of the input, which are lost once
// the image is copied out of the decoded frame.
func (cfg Config) GraphDescription() string {
	var params []string
	for _, kv := range [][2]string{
		{"color_primaries", cfg.ColorPrimaries},
		{"color_trc", cfg.ColorTransfer},
		{"colorspace", cfg.ColorSpace},
		{"range", cfg.ColorRange},
	} {
		if !isKnown(kv[1]) {
			continue
		}
		params = append(params, kv[0]+"="+normalize(kv[1]))
	}
	if len(params) == 0 {
		return cfg.FilterDescription()
	}
	return "setparams=" + strings.Join(params, ":") + "," + cfg.FilterDescription()
}

func isKnown(value string) bool {
	switch normalize(value) {
	case "", "unknown", "unspecified", "reserved", "reserved0":
		return false
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
