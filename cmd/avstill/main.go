package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"

	"github.com/asticode/go-astiav"
	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/avstill/avconv"
	"github.com/xaionaro-go/avstill/bmp"
	"github.com/xaionaro-go/avstill/converter"
	"github.com/xaionaro-go/avstill/frame"
	"github.com/xaionaro-go/avstill/rotate"
	"github.com/xaionaro-go/avstill/scaler"
	"github.com/xaionaro-go/avstill/scaler/resizer"
	"github.com/xaionaro-go/avstill/tonemap/filtergraph"
	"github.com/xaionaro-go/observability"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [flags] <input-file> <output-file>\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	frameIndex := pflag.Int("frame", 0, "the index of the video frame to extract")
	at := pflag.Duration("at", 0, "extract the first frame presented at or after this timestamp (overrides --frame)")
	width := pflag.Int("width", 0, "the width of the image before rotation (default: the frame width)")
	height := pflag.Int("height", 0, "the height of the image before rotation (default: the frame height)")
	rotation := pflag.Int("rotate", 0, "clockwise rotation in degrees: 0, 90, 180 or 270")
	transparent := pflag.Bool("transparent", false, "write a PNG with the alpha channel if the video has one")
	toneMap := pflag.Bool("tone-map", true, "tone-map HDR frames to SDR")
	scalerName := pflag.String("scaler", "libav", "the scaler to use: 'libav' (libswscale) or 'go' (cgo-free, 8-bit formats only)")
	pflag.Parse()
	if len(pflag.Args()) != 2 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	astiav.SetLogLevel(avconv.LogLevelToAstiav(l.Level()))
	astiav.SetLogCallback(func(c astiav.Classer, level astiav.LogLevel, fmt, msg string) {
		var cs string
		if c != nil {
			if cl := c.Class(); cl != nil {
				cs = " - class: " + cl.String()
			}
		}
		l.Logf(
			avconv.LogLevelFromAstiav(level),
			"%s%s",
			strings.TrimSpace(msg), cs,
		)
	})

	inputPath := pflag.Arg(0)
	outputPath := pflag.Arg(1)

	rot, err := rotate.FromDegrees(*rotation)
	if err != nil {
		l.Fatal(err)
	}

	f, err := decodeFrame(ctx, inputPath, frameSelector{Index: *frameIndex, At: *at})
	if err != nil {
		l.Fatal(err)
	}
	native, err := avconv.NewNative(ctx, f, avconv.NativeParams{
		Source:       inputPath,
		TargetWidth:  *width,
		TargetHeight: *height,
		Rotation:     rot,
		ToneMapped:   *toneMap,
	})
	f.Free()
	if err != nil {
		l.Fatal(err)
	}

	var s converter.Scaler
	switch *scalerName {
	case "libav":
		s = scaler.Bilinear{}
	case "go":
		s = resizer.Resizer{}
	default:
		l.Fatalf("unknown scaler '%s'", *scalerName)
	}

	conv, err := converter.New(converter.Config{
		Scaler:     s,
		ToneMapper: filtergraph.ToneMapper{},
	})
	if err != nil {
		l.Fatal(err)
	}

	still, err := frame.New(native, *transparent, conv)
	if err != nil {
		l.Fatal(err)
	}
	l.Debugf("materializing %s", still)
	if err := still.Materialize(ctx); err != nil {
		l.Fatal(err)
	}
	data, err := still.Data(ctx)
	if err != nil {
		l.Fatal(err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		l.Fatal(err)
	}

	kind := "PNG"
	if hdr, err := bmp.ParseHeader(data); err == nil {
		kind = fmt.Sprintf("BMP %dx%d", hdr.Width, hdr.Height)
	}
	statsJSON, err := json.Marshal(conv.Statistics.Snapshot())
	if err != nil {
		l.Fatal(err)
	}
	fmt.Printf("%s: %s, %s; stats: %s\n", outputPath, kind, humanize.Bytes(uint64(len(data))), statsJSON)
}
