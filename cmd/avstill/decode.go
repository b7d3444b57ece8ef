package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avstill/avconv"
	"github.com/xaionaro-go/avstill/logger"
)

// frameSelector picks the decoded frame to materialize: the frame with
// index Index, or, if At is set, the first frame presented at or after At.
type frameSelector struct {
	Index int
	At    time.Duration
}

func (s frameSelector) String() string {
	if s.At > 0 {
		return fmt.Sprintf("frame at %s", s.At)
	}
	return fmt.Sprintf("frame #%d", s.Index)
}

func (s frameSelector) matches(idx int, ts time.Duration) bool {
	if s.At > 0 {
		return ts != avconv.NoTimestamp && ts >= s.At
	}
	return idx == s.Index
}

// decodeFrame returns a copy of the selected video frame of the file. The
// caller frees the frame.
func decodeFrame(
	ctx context.Context,
	path string,
	selector frameSelector,
) (_ret *astiav.Frame, _err error) {
	logger.Debugf(ctx, "decodeFrame(%s, %s)", path, selector)
	defer func() { logger.Debugf(ctx, "/decodeFrame(%s, %s): %v", path, selector, _err) }()

	fmtCtx := astiav.AllocFormatContext()
	if fmtCtx == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	defer fmtCtx.Free()

	if err := fmtCtx.OpenInput(path, nil, nil); err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	defer fmtCtx.CloseInput()

	if err := fmtCtx.FindStreamInfo(nil); err != nil {
		return nil, fmt.Errorf("unable to find stream info: %w", err)
	}

	stream := avconv.FindVideoStream(fmtCtx)
	if stream == nil {
		return nil, fmt.Errorf("'%s' has no video stream", path)
	}

	codec := astiav.FindDecoder(stream.CodecParameters().CodecID())
	if codec == nil {
		return nil, fmt.Errorf("no decoder for %s", stream.CodecParameters().CodecID())
	}
	codecCtx := astiav.AllocCodecContext(codec)
	if codecCtx == nil {
		return nil, fmt.Errorf("unable to allocate a codec context")
	}
	defer codecCtx.Free()
	if err := stream.CodecParameters().ToCodecContext(codecCtx); err != nil {
		return nil, fmt.Errorf("unable to copy the codec parameters: %w", err)
	}
	if err := codecCtx.Open(codec, nil); err != nil {
		return nil, fmt.Errorf("unable to open the decoder: %w", err)
	}

	pkt := astiav.AllocPacket()
	defer pkt.Free()

	idx := 0
	receive := func() (*astiav.Frame, error) {
		for {
			f := astiav.AllocFrame()
			err := codecCtx.ReceiveFrame(f)
			if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
				f.Free()
				return nil, nil
			}
			if err != nil {
				f.Free()
				return nil, fmt.Errorf("unable to receive a frame: %w", err)
			}
			f.SetTimeBase(stream.TimeBase())
			ts := avconv.FrameTimestamp(f, stream.TimeBase())
			logger.Tracef(ctx, "decoded frame #%d at %s", idx, ts)
			if selector.matches(idx, ts) {
				return f, nil
			}
			idx++
			f.Free()
		}
	}

	for {
		err := fmtCtx.ReadFrame(pkt)
		if err != nil {
			if !errors.Is(err, astiav.ErrEof) {
				return nil, fmt.Errorf("unable to read a packet: %w", err)
			}
			break
		}
		if pkt.StreamIndex() != stream.Index() {
			pkt.Unref()
			continue
		}
		err = codecCtx.SendPacket(pkt)
		pkt.Unref()
		if err != nil {
			return nil, fmt.Errorf("unable to send a packet to the decoder: %w", err)
		}
		f, err := receive()
		if err != nil {
			return nil, err
		}
		if f != nil {
			return f, nil
		}
	}

	// drain
	if err := codecCtx.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
		return nil, fmt.Errorf("unable to flush the decoder: %w", err)
	}
	f, err := receive()
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%s was not found in '%s' (%d frames decoded)", selector, path, idx)
	}
	return f, nil
}
