package pngencoder

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avstill/picture"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestEncodePNG(t *testing.T) {
	t.Parallel()

	// 2x2, rows 12 bytes apart
	src := picture.Plane{
		Data: []byte{
			255, 0, 0, 255, 0, 255, 0, 128, 9, 9, 9, 9,
			0, 0, 255, 0, 10, 20, 30, 40, 9, 9, 9, 9,
		},
		Stride: 12,
	}
	out, err := Encoder{}.EncodePNG(context.Background(), src, 2, 2)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, pngSignature))

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	nrgba := color.NRGBAModel.Convert(img.At(1, 0)).(color.NRGBA)
	require.Equal(t, color.NRGBA{R: 0, G: 255, B: 0, A: 128}, nrgba)
	nrgba = color.NRGBAModel.Convert(img.At(1, 1)).(color.NRGBA)
	require.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 40}, nrgba)
}

func TestNRGBAErrors(t *testing.T) {
	t.Parallel()

	_, err := NRGBA(picture.Plane{Data: make([]byte, 8), Stride: 8}, 0, 1)
	require.Error(t, err)
	_, err = NRGBA(picture.Plane{Data: make([]byte, 8), Stride: 4}, 2, 1)
	require.Error(t, err)
	_, err = NRGBA(picture.Plane{Data: make([]byte, 15), Stride: 8}, 2, 2)
	require.Error(t, err)
}
