package parity

import (
	"errors"

	"stegnox/pkg/bitstream"
	"stegnox/pkg/extractor"
	"stegnox/pkg/raster"
)

// NoReadableText is reported when the window does not hold a single full byte
const NoReadableText = "No readable text found with parity method"

// ParityExtractor reads the parity of R+G+B of the first pixels in scan order.
// The carrier has no framing, so the result is a best-effort Latin-1 rendering
// of a fixed window and does not stop at the embedded terminator.
type ParityExtractor struct {
	extractor.BaseExtractor
	window int
}

// NewParityExtractor creates a parity extractor reading at most window bits
func NewParityExtractor(window int) *ParityExtractor {
	formats := []string{"png", "bmp", "tiff", "jpeg", "gif", "webp"}
	base := extractor.NewBaseExtractor("Parity Extractor", formats)

	return &ParityExtractor{
		BaseExtractor: base,
		window:        window,
	}
}

// ExtractFromImage implements the ImageExtractor interface
func (e *ParityExtractor) ExtractFromImage(img *raster.Image) (*extractor.Extraction, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}

	cur := img.Pixels().Limit(e.window)
	bits := make(bitstream.Bitstream, 0, cur.Len())
	for pos, ok := cur.Next(); ok; pos, ok = cur.Next() {
		r, g, b := img.RGB(pos.X, pos.Y)
		bits = append(bits, uint8((r+g+b)%2))
	}

	data, err := bits.Truncate().Bytes()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return &extractor.Extraction{
			Text:     NoReadableText,
			Bits:     len(bits),
			Empty:    true,
			Metadata: map[string]interface{}{"bytes": 0},
		}, nil
	}

	// one character per byte
	runes := make([]rune, len(data))
	for i, c := range data {
		runes[i] = rune(c)
	}

	return &extractor.Extraction{
		Text: string(runes),
		Bits: len(bits),
		Metadata: map[string]interface{}{
			"bytes":           len(data),
			"printable_ratio": extractor.PrintableRatio(data),
		},
	}, nil
}
