package converter

import (
	"context"

	"github.com/xaionaro-go/avstill/logger"
	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/pixfmt"
	"github.com/xaionaro-go/avstill/tonemap"
)

// Scaler converts a picture into a packed picture of format dstFormat and
// size width x height using bilinear filtering.
type Scaler interface {
	Scale(
		ctx context.Context,
		src picture.Picture,
		dstFormat pixfmt.PixelFormat,
		width, height int,
	) (picture.Picture, error)
}

// ToneMapper runs the tone-mapping filter graph described by a
// tonemap.Config.
type ToneMapper interface {
	// ShouldApply reports whether the graph exists and would affect the
	// frame.
	ShouldApply(ctx context.Context, cfg tonemap.Config) (bool, error)

	// Apply pushes src into the graph and pulls exactly one filtered
	// picture out of it.
	Apply(ctx context.Context, src picture.Picture, cfg tonemap.Config) (picture.Picture, error)
}

type PNGEncoder interface {
	EncodePNG(ctx context.Context, rgba picture.Plane, width, height int) ([]byte, error)
}

// WarningSink receives human-readable diagnostics.
type WarningSink interface {
	Warn(ctx context.Context, msg string)
}

type WarningSinkFunc func(ctx context.Context, msg string)

func (fn WarningSinkFunc) Warn(ctx context.Context, msg string) {
	fn(ctx, msg)
}

// LoggerWarningSink writes warnings to the logger from the context.
type LoggerWarningSink struct{}

func (LoggerWarningSink) Warn(ctx context.Context, msg string) {
	logger.Warnf(ctx, "%s", msg)
}

// NoToneMapping never applies tone mapping.
type NoToneMapping struct{}

func (NoToneMapping) ShouldApply(context.Context, tonemap.Config) (bool, error) {
	return false, nil
}

func (NoToneMapping) Apply(_ context.Context, src picture.Picture, _ tonemap.Config) (picture.Picture, error) {
	return src, nil
}
