package parity

import (
	"errors"

	"stegnox/pkg/bitstream"
	"stegnox/pkg/embedder"
	"stegnox/pkg/raster"
)

// ParityEmbedder stores one bit per pixel as the parity of R+G+B. A pixel with
// the wrong parity has its blue channel moved by one.
type ParityEmbedder struct {
	embedder.BaseEmbedder
}

// NewParityEmbedder creates a new parity embedder
func NewParityEmbedder() *ParityEmbedder {
	return &ParityEmbedder{
		BaseEmbedder: embedder.NewBaseEmbedder(
			"Parity Embedder",
			"Sets the parity of R+G+B of each pixel by nudging the blue channel",
			[]string{"png", "bmp", "tiff"},
		),
	}
}

// Capacity is one bit per pixel
func (e *ParityEmbedder) Capacity(img *raster.Image) int {
	return img.PixelCount()
}

// Embed implements the ImageEmbedder interface
func (e *ParityEmbedder) Embed(img *raster.Image, payload string) (*embedder.Embedding, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}

	bits := bitstream.Encode(payload)
	capacity := e.Capacity(img)
	if err := embedder.CheckCapacity(len(bits), capacity); err != nil {
		return nil, err
	}

	out := img.Clone()
	cur := out.Pixels().Limit(len(bits))
	for pos, ok := cur.Next(); ok; pos, ok = cur.Next() {
		r, g, b := out.RGB(pos.X, pos.Y)
		if (r+g+b)%2 == int(bits[pos.Index]) {
			continue
		}
		if b > 0 {
			out.Set(pos.X, pos.Y, raster.Blue, b-1)
		} else {
			out.Set(pos.X, pos.Y, raster.Blue, b+1)
		}
	}

	return &embedder.Embedding{Image: out, BitsUsed: len(bits), Capacity: capacity}, nil
}
