package lsb

import (
	"errors"

	"stegnox/pkg/bitstream"
	"stegnox/pkg/embedder"
	"stegnox/pkg/raster"
)

// LSBEmbedder writes one payload bit into the least significant bit of each
// channel value, R then G then B, row-major
type LSBEmbedder struct {
	embedder.BaseEmbedder
}

// NewLSBEmbedder creates a new LSB embedder
func NewLSBEmbedder() *LSBEmbedder {
	return &LSBEmbedder{
		BaseEmbedder: embedder.NewBaseEmbedder(
			"LSB Embedder",
			"Overwrites the least significant bit of every R, G and B value in scan order",
			[]string{"png", "bmp", "tiff"},
		),
	}
}

// Capacity is three bits per pixel
func (e *LSBEmbedder) Capacity(img *raster.Image) int {
	return img.SampleCount()
}

// Embed implements the ImageEmbedder interface
func (e *LSBEmbedder) Embed(img *raster.Image, payload string) (*embedder.Embedding, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}

	bits := bitstream.Encode(payload)
	capacity := e.Capacity(img)
	if err := embedder.CheckCapacity(len(bits), capacity); err != nil {
		return nil, err
	}

	out := img.Clone()
	cur := out.Samples().Limit(len(bits))
	for pos, ok := cur.Next(); ok; pos, ok = cur.Next() {
		v := out.Get(pos.X, pos.Y, pos.Channel)
		out.Set(pos.X, pos.Y, pos.Channel, (v&0xFE)|int(bits[pos.Index]))
	}

	return &embedder.Embedding{Image: out, BitsUsed: len(bits), Capacity: capacity}, nil
}
