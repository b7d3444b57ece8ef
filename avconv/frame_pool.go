// frame_pool.go implements a pool for reusing astiav.Frame objects.

package avconv

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avstill/pool"
)

var FramePool = pool.NewPool(
	astiav.AllocFrame,
	func(p *astiav.Frame) { p.Unref() },
	func(p *astiav.Frame) { p.Free() },
)
