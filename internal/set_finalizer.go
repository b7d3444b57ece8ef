package internal

import (
	"context"
	"runtime"

	"github.com/xaionaro-go/avstill/logger"
)

// SetFinalizerFree makes the garbage collector release the FFmpeg
// resources behind freer.
func SetFinalizerFree[T interface{ Free() }](
	ctx context.Context,
	freer T,
) {
	runtime.SetFinalizer(freer, func(freer T) {
		logger.Debugf(ctx, "freeing %T", freer)
		freer.Free()
	})
}
