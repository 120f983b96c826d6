package parity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stegnox/pkg/bitstream"
	"stegnox/pkg/embedder"
	"stegnox/pkg/raster"
)

func TestEmbedSetsPixelParity(t *testing.T) {
	src := raster.Filled(50, 50, 255, 255, 255)
	res, err := NewParityEmbedder().Embed(src, "hi")
	require.NoError(t, err)
	require.Equal(t, 2500, res.Capacity)

	bits := bitstream.Encode("hi")
	require.Equal(t, len(bits), res.BitsUsed)

	cur := res.Image.Pixels().Limit(len(bits))
	for pos, ok := cur.Next(); ok; pos, ok = cur.Next() {
		r, g, b := res.Image.RGB(pos.X, pos.Y)
		require.Equal(t, int(bits[pos.Index]), (r+g+b)%2)
		require.Equal(t, 255, r)
		require.Equal(t, 255, g)
		require.Contains(t, []int{254, 255}, b)
	}
	require.Equal(t, 255, res.Image.Get(49, 49, raster.Blue))
}

func TestEmbedIncrementsZeroBlue(t *testing.T) {
	// R+G+B == 0 is even; a 1 bit needs blue moved up
	src := raster.Filled(64, 1, 0, 0, 0)
	res, err := NewParityEmbedder().Embed(src, "")
	require.NoError(t, err)

	bits := bitstream.Encode("")
	for i, bit := range bits {
		require.Equal(t, int(bit), res.Image.Get(i, 0, raster.Blue))
	}
}

func TestEmbedCapacityBoundary(t *testing.T) {
	src := raster.Filled(10, 10, 1, 2, 3)
	e := NewParityEmbedder()

	// (8 + 4) * 8 == 96 <= 100
	_, err := e.Embed(src, strings.Repeat("z", 8))
	require.NoError(t, err)

	_, err = e.Embed(src, strings.Repeat("z", 9))
	require.ErrorIs(t, err, embedder.ErrPayloadTooLarge)
}
