package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetClamps(t *testing.T) {
	img := New(2, 2)
	img.Set(0, 0, Red, 300)
	img.Set(1, 1, Blue, -5)

	require.Equal(t, 255, img.Get(0, 0, Red))
	require.Equal(t, 0, img.Get(1, 1, Blue))
}

func TestFromImageDropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	img := FromImage(src)
	require.Equal(t, 2, img.Width())
	require.Equal(t, 1, img.Height())
	require.Equal(t, "RGBA", img.Mode)

	r, g, b := img.RGB(1, 0)
	require.Equal(t, []int{200, 100, 50}, []int{r, g, b})

	out := img.ToImage()
	require.Equal(t, uint8(0xff), out.NRGBAAt(1, 0).A)
	require.Equal(t, uint8(200), out.NRGBAAt(1, 0).R)
}

func TestCloneIsDeep(t *testing.T) {
	img := Filled(3, 3, 255, 255, 255)
	img.Metadata["comment"] = "x"

	cp := img.Clone()
	cp.Set(0, 0, Green, 0)
	cp.Metadata["comment"] = "y"

	require.Equal(t, 255, img.Get(0, 0, Green))
	require.Equal(t, "x", img.Metadata["comment"])
	require.False(t, img.Equal(cp))
}

func TestSampleCursorOrder(t *testing.T) {
	img := New(2, 2)
	cur := img.Samples()
	require.Equal(t, 12, cur.Len())

	var got []Position
	for pos, ok := cur.Next(); ok; pos, ok = cur.Next() {
		got = append(got, pos)
	}
	require.Len(t, got, 12)
	require.Equal(t, Position{X: 0, Y: 0, Channel: Red, Index: 0}, got[0])
	require.Equal(t, Position{X: 0, Y: 0, Channel: Blue, Index: 2}, got[2])
	require.Equal(t, Position{X: 1, Y: 0, Channel: Red, Index: 3}, got[3])
	require.Equal(t, Position{X: 0, Y: 1, Channel: Green, Index: 7}, got[7])
}

func TestPixelCursorLimit(t *testing.T) {
	img := New(10, 10)
	cur := img.Pixels().Limit(15)

	n := 0
	var last Position
	for pos, ok := cur.Next(); ok; pos, ok = cur.Next() {
		last = pos
		n++
	}
	require.Equal(t, 15, n)
	require.Equal(t, Position{X: 4, Y: 1, Channel: Red, Index: 14}, last)
}

func TestLuminanceRounds(t *testing.T) {
	img := Filled(1, 1, 255, 0, 0)
	require.Equal(t, []float64{76}, img.Luminance())
}

func TestHistogramAndBitPlane(t *testing.T) {
	img := New(2, 1)
	img.Set(0, 0, Red, 3)
	img.Set(1, 0, Red, 4)

	hist := img.Histogram(Red)
	require.Equal(t, 1, hist[3])
	require.Equal(t, 1, hist[4])
	require.Equal(t, 2, img.Histogram(Green)[0])

	require.Equal(t, 1, img.BitPlaneOnes(Red, 0))
	plane := img.BitPlane(Red, 0)
	require.Equal(t, uint8(0xff), plane.GrayAt(0, 0).Y)
	require.Equal(t, uint8(0), plane.GrayAt(1, 0).Y)
}
