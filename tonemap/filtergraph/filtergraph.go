// Package filtergraph runs tone-mapping FFmpeg filter graphs on pictures.
package filtergraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avstill/avconv"
	"github.com/xaionaro-go/avstill/converter"
	"github.com/xaionaro-go/avstill/logger"
	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/tonemap"
)

// ErrNoOutput means the graph accepted the frame but produced nothing.
type ErrNoOutput struct{}

func (ErrNoOutput) Error() string {
	return "the filter graph produced no frame"
}

// requiredFilters are the filters referenced by tonemap.Config.GraphDescription.
var requiredFilters = []string{"buffer", "buffersink", "setparams", "zscale", "format", "tonemap"}

// ToneMapper builds a transient filter graph for every picture.
type ToneMapper struct{}

var _ converter.ToneMapper = ToneMapper{}

func (ToneMapper) String() string {
	return "FilterGraphToneMapper"
}

// ShouldApply reports whether cfg describes an HDR signal and this build
// of libavfilter has everything needed to tone-map it.
func (ToneMapper) ShouldApply(
	ctx context.Context,
	cfg tonemap.Config,
) (bool, error) {
	if !tonemap.ShouldFilter(cfg) {
		return false, nil
	}
	for _, name := range requiredFilters {
		if astiav.FindFilterByName(name) == nil {
			logger.Debugf(ctx, "filter %q is not available, skipping tone mapping of %s", name, cfg)
			return false, nil
		}
	}
	return true, nil
}

// Apply pushes src into a new graph and pulls one filtered picture.
func (ToneMapper) Apply(
	ctx context.Context,
	src picture.Picture,
	cfg tonemap.Config,
) (_ret picture.Picture, _err error) {
	logger.Tracef(ctx, "Apply(%s, %s)", src, cfg)
	defer func() { logger.Tracef(ctx, "/Apply(%s, %s): %s, %v", src, cfg, _ret, _err) }()

	if err := src.Validate(); err != nil {
		return picture.Picture{}, err
	}

	g, err := newGraph(ctx, src, cfg)
	if err != nil {
		return picture.Picture{}, err
	}
	defer g.Free()

	in, err := avconv.PictureToFrame(src)
	if err != nil {
		return picture.Picture{}, fmt.Errorf("unable to prepare the input frame: %w", err)
	}
	defer avconv.FramePool.Put(in)

	if err := g.src.AddFrame(in, astiav.NewBuffersrcFlags(astiav.BuffersrcFlagKeepRef)); err != nil {
		return picture.Picture{}, fmt.Errorf("unable to push the frame into the graph: %w", err)
	}

	out := avconv.FramePool.Get()
	defer avconv.FramePool.Put(out)
	err = g.sink.GetFrame(out, astiav.NewBuffersinkFlags())
	switch {
	case errors.Is(err, astiav.ErrEagain):
		return picture.Picture{}, ErrNoOutput{}
	case err != nil:
		return picture.Picture{}, fmt.Errorf("unable to pull the frame from the graph: %w", err)
	}

	return avconv.PictureFromFrame(out)
}

type graph struct {
	*astiav.FilterGraph
	src  *astiav.BuffersrcFilterContext
	sink *astiav.BuffersinkFilterContext
}

func newGraph(
	ctx context.Context,
	src picture.Picture,
	cfg tonemap.Config,
) (_ *graph, _err error) {
	desc := "[in]" + cfg.GraphDescription() + "[out]"
	logger.Debugf(ctx, "building the filter graph %q", desc)

	fg := astiav.AllocFilterGraph()
	if fg == nil {
		return nil, fmt.Errorf("unable to allocate filter graph")
	}
	defer func() {
		if _err != nil {
			fg.Free()
		}
	}()

	srcFilter := astiav.FindFilterByName("buffer")
	sinkFilter := astiav.FindFilterByName("buffersink")
	if srcFilter == nil || sinkFilter == nil {
		return nil, fmt.Errorf("unable to find buffer or buffersink filters")
	}

	srcCtx, err := fg.NewBuffersrcFilterContext(srcFilter, "in")
	if err != nil {
		return nil, fmt.Errorf("unable to create buffersrc context: %w", err)
	}
	sinkCtx, err := fg.NewBuffersinkFilterContext(sinkFilter, "out")
	if err != nil {
		return nil, fmt.Errorf("unable to create buffersink context: %w", err)
	}

	timeBase := cfg.TimeBase
	if timeBase.Num <= 0 || timeBase.Den <= 0 {
		timeBase = tonemap.Rational{Num: 1, Den: 1}
	}
	params := astiav.AllocBuffersrcFilterContextParameters()
	defer params.Free()
	params.SetWidth(src.Width)
	params.SetHeight(src.Height)
	params.SetPixelFormat(avconv.PixelFormatToAstiav(src.Format))
	params.SetTimeBase(astiav.NewRational(timeBase.Num, timeBase.Den))
	params.SetSampleAspectRatio(astiav.NewRational(1, 1))
	if err := srcCtx.SetParameters(params); err != nil {
		return nil, fmt.Errorf("unable to set buffersrc parameters: %w", err)
	}
	if err := srcCtx.Initialize(nil); err != nil {
		return nil, fmt.Errorf("unable to initialize buffersrc: %w", err)
	}

	outputs := astiav.AllocFilterInOut()
	defer outputs.Free()
	outputs.SetName("in")
	outputs.SetFilterContext(srcCtx.FilterContext())
	outputs.SetPadIdx(0)
	outputs.SetNext(nil)

	inputs := astiav.AllocFilterInOut()
	defer inputs.Free()
	inputs.SetName("out")
	inputs.SetFilterContext(sinkCtx.FilterContext())
	inputs.SetPadIdx(0)
	inputs.SetNext(nil)

	if err := fg.Parse(desc, inputs, outputs); err != nil {
		return nil, fmt.Errorf("unable to parse filter string %q: %w", desc, err)
	}
	if err := fg.Configure(); err != nil {
		return nil, fmt.Errorf("unable to configure filter graph: %w", err)
	}

	return &graph{
		FilterGraph: fg,
		src:         srcCtx,
		sink:        sinkCtx,
	}, nil
}
