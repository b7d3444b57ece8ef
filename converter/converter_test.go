package converter

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avstill/bmp"
	"github.com/xaionaro-go/avstill/frame"
	"github.com/xaionaro-go/avstill/picture"
	"github.com/xaionaro-go/avstill/pixfmt"
	"github.com/xaionaro-go/avstill/rotate"
	"github.com/xaionaro-go/avstill/scaler/resizer"
	"github.com/xaionaro-go/avstill/tonemap"
	xbmp "golang.org/x/image/bmp"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// dummyScaler produces a picture filled with Color, rows padded by
// ExtraStride bytes of garbage.
type dummyScaler struct {
	Color       [4]byte
	ExtraStride int
	Err         error
	Gradient    bool

	Received []picture.Picture
}

func (s *dummyScaler) Scale(
	_ context.Context,
	src picture.Picture,
	dstFormat pixfmt.PixelFormat,
	width, height int,
) (picture.Picture, error) {
	s.Received = append(s.Received, src)
	if s.Err != nil {
		return picture.Picture{}, s.Err
	}
	for _, plane := range src.Planes {
		for i := range plane.Data {
			plane.Data[i] = 0x5A
		}
	}

	bpp := pixfmt.BytesPerPixel(dstFormat)
	stride := width*bpp + s.ExtraStride
	data := make([]byte, stride*height)
	for i := range data {
		data[i] = 0xEE
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*stride + x*bpp
			if s.Gradient {
				for c := 0; c < bpp; c++ {
					data[idx+c] = byte(x*40 + y*3 + c)
				}
				continue
			}
			copy(data[idx:idx+bpp], s.Color[:bpp])
		}
	}
	return picture.Picture{
		Format: dstFormat,
		Width:  width,
		Height: height,
		Planes: []picture.Plane{{Data: data, Stride: stride}},
	}, nil
}

type dummyToneMapper struct {
	Applicable bool
	CheckErr   error
	ApplyErr   error

	ShouldApplyCalls int
	ApplyCalls       int
}

func (m *dummyToneMapper) ShouldApply(context.Context, tonemap.Config) (bool, error) {
	m.ShouldApplyCalls++
	return m.Applicable, m.CheckErr
}

func (m *dummyToneMapper) Apply(
	_ context.Context,
	src picture.Picture,
	_ tonemap.Config,
) (picture.Picture, error) {
	m.ApplyCalls++
	if m.ApplyErr != nil {
		return picture.Picture{}, m.ApplyErr
	}
	return picture.New(pixfmt.YUV420P, src.Width, src.Height)
}

type dummyPNG struct {
	Err error
}

func (e dummyPNG) EncodePNG(context.Context, picture.Plane, int, int) ([]byte, error) {
	return nil, e.Err
}

type warnings struct {
	locker   sync.Mutex
	messages []string
}

func (w *warnings) Warn(_ context.Context, msg string) {
	w.locker.Lock()
	defer w.locker.Unlock()
	w.messages = append(w.messages, msg)
}

func newNative(
	t *testing.T,
	format pixfmt.PixelFormat,
	width, height int,
	rotation rotate.Rotation,
) *frame.Native {
	pic, err := picture.New(format, width, height)
	require.NoError(t, err)
	for _, plane := range pic.Planes {
		for i := range plane.Data {
			plane.Data[i] = 0x80
		}
	}
	return &frame.Native{
		OriginalWidth:  width,
		OriginalHeight: height,
		TargetWidth:    width,
		TargetHeight:   height,
		Rotation:       rotation,
		Source:         "http://localhost/video.webm",
		Picture:        pic,
		EstimatedSize:  pixfmt.EstimateSize(format, width, height),
		ToneMap: tonemap.Config{
			Width:         width,
			Height:        height,
			PixelFormat:   format,
			ColorTransfer: tonemap.TransferPQ,
		},
	}
}

func newConverter(t *testing.T, cfg Config) *Converter {
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestMaterializeWhite2x2(t *testing.T) {
	t.Parallel()

	w := &warnings{}
	c := newConverter(t, Config{
		Scaler:      &dummyScaler{Color: [4]byte{255, 255, 255, 255}, ExtraStride: 2},
		WarningSink: w,
	})
	out, err := c.Materialize(context.Background(), newNative(t, pixfmt.YUV420P, 2, 2, rotate.Rotate0), false)
	require.NoError(t, err)
	require.Len(t, out, 70)
	require.Equal(t, "BM", string(out[:2]))
	for row := 0; row < 2; row++ {
		r := out[bmp.HeaderSize+row*8 : bmp.HeaderSize+(row+1)*8]
		require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0, 0}, r)
	}
	require.Empty(t, w.messages)
	require.Equal(t, StatisticsSnapshot{FramesMaterialized: 1, BMPImages: 1}, c.Statistics.Snapshot())
}

func TestMaterializeTransparentWithoutAlpha(t *testing.T) {
	t.Parallel()

	w := &warnings{}
	c := newConverter(t, Config{
		Scaler:      &dummyScaler{Color: [4]byte{10, 20, 30, 255}},
		WarningSink: w,
	})
	native := newNative(t, pixfmt.YUV420P, 3, 2, rotate.Rotate0)
	out, err := c.Materialize(context.Background(), native, true)
	require.NoError(t, err)
	require.Equal(t, "BM", string(out[:2]))
	require.Len(t, out, bmp.EncodedSize(3, 2))

	// RGBA(10,20,30) is written as BGR triplets
	require.Equal(t, []byte{30, 20, 10}, out[bmp.HeaderSize:bmp.HeaderSize+3])

	require.Len(t, w.messages, 1)
	require.Contains(t, w.messages[0], native.Source)
	require.Contains(t, w.messages[0], "yuv420p")
	require.Equal(t, uint64(1), c.Statistics.Snapshot().TransparencyFallbacks)
}

func TestMaterializeTransparentWithAlpha(t *testing.T) {
	for _, format := range []pixfmt.PixelFormat{pixfmt.YUVA420P, pixfmt.YUVA444P10LE, pixfmt.YUVA444P12LE} {
		format := format
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			w := &warnings{}
			c := newConverter(t, Config{
				Scaler:      &dummyScaler{Color: [4]byte{1, 2, 3, 4}, ExtraStride: 4},
				WarningSink: w,
			})
			out, err := c.Materialize(context.Background(), newNative(t, format, 4, 2, rotate.Rotate90), true)
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(out, pngSignature))
			require.Empty(t, w.messages)
			require.Equal(t, uint64(1), c.Statistics.Snapshot().PNGImages)
		})
	}
}

func TestMaterializeAlphaSourceOpaqueRequest(t *testing.T) {
	t.Parallel()

	w := &warnings{}
	c := newConverter(t, Config{Scaler: &dummyScaler{}, WarningSink: w})
	out, err := c.Materialize(context.Background(), newNative(t, pixfmt.YUVA420P, 2, 2, rotate.Rotate0), false)
	require.NoError(t, err)
	require.Equal(t, "BM", string(out[:2]))
	require.Empty(t, w.messages)
}

func TestMaterializeRotationHeader(t *testing.T) {
	for _, rot := range []rotate.Rotation{rotate.Rotate0, rotate.Rotate90, rotate.Rotate180, rotate.Rotate270} {
		rot := rot
		t.Run(rot.String(), func(t *testing.T) {
			t.Parallel()

			c := newConverter(t, Config{Scaler: &dummyScaler{Gradient: true, ExtraStride: 3}})
			native := newNative(t, pixfmt.YUV444P, 6, 4, rot)
			native.TargetWidth, native.TargetHeight = 5, 3
			out, err := c.Materialize(context.Background(), native, false)
			require.NoError(t, err)

			width, height := native.OutputDimensions()
			require.Equal(t, "BM", string(out[:2]))
			require.Equal(t, uint32(40), binary.LittleEndian.Uint32(out[14:]))
			require.Equal(t, uint32(width), binary.LittleEndian.Uint32(out[18:]))
			require.Equal(t, uint32(height), binary.LittleEndian.Uint32(out[22:]))
			require.Len(t, out, 54+rotate.RoundUp4(width*3)*height)

			h, err := bmp.ParseHeader(out)
			require.NoError(t, err)
			require.Equal(t, uint32(width), h.Width)
		})
	}
}

func TestMaterializeRotate90Pixels(t *testing.T) {
	t.Parallel()

	scaler := &dummyScaler{Gradient: true, ExtraStride: 1}
	c := newConverter(t, Config{Scaler: scaler})
	native := newNative(t, pixfmt.YUV420P, 4, 2, rotate.Rotate90)
	out, err := c.Materialize(context.Background(), native, false)
	require.NoError(t, err)

	// output is 2x4, stored bottom-up with 8-byte rows
	const outHeight, rowSize = 4, 8
	pixelOut := func(x, y int) []byte {
		idx := bmp.HeaderSize + (outHeight-1-y)*rowSize + x*3
		return out[idx : idx+3]
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			expected := []byte{byte(x*40 + y*3), byte(x*40 + y*3 + 1), byte(x*40 + y*3 + 2)}
			require.Equal(t, expected, pixelOut(2-1-y, x), "x=%d y=%d", x, y)
		}
	}
}

func TestMaterializeDecouplesFromSource(t *testing.T) {
	t.Parallel()

	scaler := &dummyScaler{}
	c := newConverter(t, Config{Scaler: scaler})
	native := newNative(t, pixfmt.YUV420P, 2, 2, rotate.Rotate0)
	_, err := c.Materialize(context.Background(), native, false)
	require.NoError(t, err)

	require.Len(t, scaler.Received, 1)
	require.Equal(t, byte(0x5A), scaler.Received[0].Planes[0].Data[0])
	for _, plane := range native.Picture.Planes {
		for _, b := range plane.Data {
			require.Equal(t, byte(0x80), b)
		}
	}
}

func TestMaterializeToneMapping(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		t.Parallel()
		scaler := &dummyScaler{}
		tm := &dummyToneMapper{Applicable: true}
		c := newConverter(t, Config{Scaler: scaler, ToneMapper: tm})
		native := newNative(t, pixfmt.YUV420P10LE, 2, 2, rotate.Rotate0)
		native.ToneMapped = true
		_, err := c.Materialize(context.Background(), native, false)
		require.NoError(t, err)
		require.Equal(t, 1, tm.ApplyCalls)
		require.Equal(t, pixfmt.YUV420P, scaler.Received[0].Format)
		require.Equal(t, uint64(1), c.Statistics.Snapshot().FramesToneMapped)
	})

	t.Run("not-applicable", func(t *testing.T) {
		t.Parallel()
		scaler := &dummyScaler{}
		tm := &dummyToneMapper{Applicable: false}
		c := newConverter(t, Config{Scaler: scaler, ToneMapper: tm})
		native := newNative(t, pixfmt.YUV420P10LE, 2, 2, rotate.Rotate0)
		native.ToneMapped = true
		_, err := c.Materialize(context.Background(), native, false)
		require.NoError(t, err)
		require.Equal(t, 1, tm.ShouldApplyCalls)
		require.Zero(t, tm.ApplyCalls)
		require.Equal(t, pixfmt.YUV420P10LE, scaler.Received[0].Format)
	})

	t.Run("not-requested", func(t *testing.T) {
		t.Parallel()
		scaler := &dummyScaler{}
		tm := &dummyToneMapper{Applicable: true}
		c := newConverter(t, Config{Scaler: scaler, ToneMapper: tm})
		_, err := c.Materialize(context.Background(), newNative(t, pixfmt.YUV420P10LE, 2, 2, rotate.Rotate0), false)
		require.NoError(t, err)
		require.Zero(t, tm.ApplyCalls)
		require.Equal(t, pixfmt.YUV420P10LE, scaler.Received[0].Format)
	})

	t.Run("alpha-decision-uses-source-format", func(t *testing.T) {
		t.Parallel()
		w := &warnings{}
		c := newConverter(t, Config{
			Scaler:      &dummyScaler{},
			ToneMapper:  &dummyToneMapper{Applicable: true},
			WarningSink: w,
		})
		native := newNative(t, pixfmt.YUVA444P10LE, 2, 2, rotate.Rotate0)
		native.ToneMapped = true
		out, err := c.Materialize(context.Background(), native, true)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(out, pngSignature))
		require.Empty(t, w.messages)
	})
}

func TestMaterializeErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("scaler", func(t *testing.T) {
		t.Parallel()
		c := newConverter(t, Config{Scaler: &dummyScaler{Err: fmt.Errorf("boom")}})
		_, err := c.Materialize(ctx, newNative(t, pixfmt.YUV420P, 2, 2, rotate.Rotate0), false)
		require.ErrorAs(t, err, &ErrScaler{})
		require.Equal(t, uint64(1), c.Statistics.Snapshot().Failures)
		require.Zero(t, c.Statistics.Snapshot().FramesMaterialized)
	})

	t.Run("scaler-geometry", func(t *testing.T) {
		t.Parallel()
		c := newConverter(t, Config{Scaler: scalerFunc(func(src picture.Picture, f pixfmt.PixelFormat, w, h int) (picture.Picture, error) {
			return picture.New(f, w+1, h)
		})})
		_, err := c.Materialize(ctx, newNative(t, pixfmt.YUV420P, 2, 2, rotate.Rotate0), false)
		require.ErrorAs(t, err, &ErrScaler{})
	})

	t.Run("filter-check", func(t *testing.T) {
		t.Parallel()
		c := newConverter(t, Config{
			Scaler:     &dummyScaler{},
			ToneMapper: &dummyToneMapper{CheckErr: fmt.Errorf("no such filter")},
		})
		native := newNative(t, pixfmt.YUV420P10LE, 2, 2, rotate.Rotate0)
		native.ToneMapped = true
		_, err := c.Materialize(ctx, native, false)
		require.ErrorAs(t, err, &ErrFilter{})
	})

	t.Run("filter-apply", func(t *testing.T) {
		t.Parallel()
		c := newConverter(t, Config{
			Scaler:     &dummyScaler{},
			ToneMapper: &dummyToneMapper{Applicable: true, ApplyErr: fmt.Errorf("EAGAIN")},
		})
		native := newNative(t, pixfmt.YUV420P10LE, 2, 2, rotate.Rotate0)
		native.ToneMapped = true
		_, err := c.Materialize(ctx, native, false)
		require.ErrorAs(t, err, &ErrFilter{})
		require.ErrorContains(t, err, "EAGAIN")
	})

	t.Run("png", func(t *testing.T) {
		t.Parallel()
		c := newConverter(t, Config{
			Scaler:     &dummyScaler{},
			PNGEncoder: dummyPNG{Err: fmt.Errorf("disk full")},
		})
		_, err := c.Materialize(ctx, newNative(t, pixfmt.YUVA420P, 2, 2, rotate.Rotate0), true)
		require.ErrorAs(t, err, &ErrEncoder{})
	})

	t.Run("invalid-input", func(t *testing.T) {
		t.Parallel()
		c := newConverter(t, Config{Scaler: &dummyScaler{}})
		_, err := c.Materialize(ctx, nil, false)
		require.ErrorAs(t, err, &ErrInvalidInput{})

		native := newNative(t, pixfmt.YUV420P, 2, 2, rotate.Rotate0)
		native.TargetWidth = 0
		_, err = c.Materialize(ctx, native, false)
		require.ErrorAs(t, err, &ErrInvalidInput{})
	})

	t.Run("no-scaler", func(t *testing.T) {
		t.Parallel()
		_, err := New(Config{})
		require.Error(t, err)
	})
}

type scalerFunc func(src picture.Picture, dstFormat pixfmt.PixelFormat, width, height int) (picture.Picture, error)

func (fn scalerFunc) Scale(
	_ context.Context,
	src picture.Picture,
	dstFormat pixfmt.PixelFormat,
	width, height int,
) (picture.Picture, error) {
	return fn(src, dstFormat, width, height)
}

func TestFrameThroughConverter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	scaler := &dummyScaler{Color: [4]byte{255, 255, 255, 255}}
	c := newConverter(t, Config{Scaler: scaler})
	native := newNative(t, pixfmt.YUV420P, 2, 2, rotate.Rotate0)
	estimate := native.EstimatedSize

	f, err := frame.New(native, false, c)
	require.NoError(t, err)
	require.Equal(t, estimate, f.Size(ctx))

	_, err = f.Data(ctx)
	require.ErrorAs(t, err, &frame.ErrNotReady{})

	require.NoError(t, f.Materialize(ctx))
	first, err := f.Data(ctx)
	require.NoError(t, err)
	require.NoError(t, f.Materialize(ctx))
	second, err := f.Data(ctx)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Len(t, scaler.Received, 1)
	require.Equal(t, uint64(70), f.Size(ctx))
}

func TestFrameThroughConverterFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	scaler := &dummyScaler{Err: fmt.Errorf("unsupported conversion")}
	c := newConverter(t, Config{Scaler: scaler})
	f, err := frame.New(newNative(t, pixfmt.YUV420P, 2, 2, rotate.Rotate0), false, c)
	require.NoError(t, err)

	err = f.Materialize(ctx)
	require.ErrorAs(t, err, &frame.ErrConversionFailed{})
	require.ErrorAs(t, err, &ErrScaler{})
	require.False(t, f.IsMaterialized(ctx))

	scaler.Err = nil
	require.NoError(t, f.Materialize(ctx))
	require.True(t, f.IsMaterialized(ctx))
}

func TestMaterializeWithResizer(t *testing.T) {
	t.Parallel()

	native := newNative(t, pixfmt.YUV420P, 4, 2, rotate.Rotate90)
	for i := range native.Picture.Planes[0].Data {
		native.Picture.Planes[0].Data[i] = 0xFF
	}
	native.TargetWidth, native.TargetHeight = 2, 1

	c := newConverter(t, Config{Scaler: resizer.Resizer{}})
	out, err := c.Materialize(context.Background(), native, false)
	require.NoError(t, err)
	require.Len(t, out, bmp.EncodedSize(1, 2))

	img, err := xbmp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 1, 2), img.Bounds())
	for y := 0; y < 2; y++ {
		r, g, b, _ := img.At(0, y).RGBA()
		require.Equal(t, [3]uint32{0xFFFF, 0xFFFF, 0xFFFF}, [3]uint32{r, g, b})
	}
}
