package metadata

import (
	"errors"
	"fmt"

	"stegnox/pkg/embedder"
	"stegnox/pkg/filehandler"
	"stegnox/pkg/raster"
)

// MetadataEmbedder stores the payload verbatim in the container comment
type MetadataEmbedder struct {
	embedder.BaseEmbedder
}

// NewMetadataEmbedder creates a new metadata embedder
func NewMetadataEmbedder() *MetadataEmbedder {
	return &MetadataEmbedder{
		BaseEmbedder: embedder.NewBaseEmbedder(
			"Metadata Embedder",
			"Writes the payload into the PNG text chunk or JPEG comment named \"comment\"",
			[]string{"png", "jpeg"},
		),
	}
}

// Capacity is unbounded; the container splits long comments as needed
func (e *MetadataEmbedder) Capacity(img *raster.Image) int {
	return embedder.Unbounded
}

// Embed implements the ImageEmbedder interface. Pixels are left as they are.
func (e *MetadataEmbedder) Embed(img *raster.Image, payload string) (*embedder.Embedding, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}

	format := img.Format
	if format == "" {
		format = "png"
	}
	if !e.CanEmbed(format) {
		return nil, fmt.Errorf("%w: %s", filehandler.ErrMetadataUnsupported, format)
	}

	out := img.Clone()
	out.Format = format
	out.Metadata[filehandler.CommentKey] = payload

	return &embedder.Embedding{
		Image:    out,
		BitsUsed: 8 * len(payload),
		Capacity: embedder.Unbounded,
		Key:      filehandler.CommentKey,
	}, nil
}
