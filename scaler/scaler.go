// Package scaler converts and resizes pictures with libswscale.
package scaler

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/pixfmt"
)

// Scaler is a single configured conversion: fixed source and destination
// geometry and formats.
type Scaler interface {
	fmt.Stringer
	Close(context.Context) error
	Scale(ctx context.Context, src picture.Picture) (picture.Picture, error)
	SourcePixelFormat() pixfmt.PixelFormat
	DestinationPixelFormat() pixfmt.PixelFormat
}
