package lsb

import (
	"errors"

	"stegnox/pkg/bitstream"
	"stegnox/pkg/extractor"
	"stegnox/pkg/raster"
)

// LSBExtractor implements the ImageExtractor interface for LSB steganography
type LSBExtractor struct {
	extractor.BaseExtractor
}

// NewLSBExtractor creates a new LSB extractor
func NewLSBExtractor() *LSBExtractor {
	formats := []string{"png", "bmp", "tiff", "jpeg", "gif", "webp"}
	base := extractor.NewBaseExtractor("LSB Extractor", formats)

	return &LSBExtractor{
		BaseExtractor: base,
	}
}

// ExtractFromImage reads channel LSBs in scan order until the terminator shows
// up. The scan stops at the first terminator, so its cost follows the payload
// length rather than the image size.
func (e *LSBExtractor) ExtractFromImage(img *raster.Image) (*extractor.Extraction, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}

	terminator := bitstream.TerminatorBits()
	// a pixel adds 3 bits, so a terminator completed by it starts at most
	// len(terminator)+2 bits from the end
	lookback := len(terminator) + raster.ChannelsPerPixel - 1

	bits := make(bitstream.Bitstream, 0, 1024)
	end := -1
	cur := img.Samples()
	for pos, ok := cur.Next(); ok; pos, ok = cur.Next() {
		bits = append(bits, uint8(img.Get(pos.X, pos.Y, pos.Channel)&1))
		if pos.Channel != raster.Blue || len(bits) < len(terminator) {
			continue
		}
		if at := bits.IndexFrom(terminator, len(bits)-lookback); at >= 0 {
			end = at
			break
		}
	}

	if end < 0 {
		return nil, bitstream.ErrNoValidData
	}

	text, err := bitstream.Decode(bits[:end])
	if err != nil {
		return nil, err
	}

	return &extractor.Extraction{
		Text: text,
		Bits: len(bits),
		Metadata: map[string]interface{}{
			"payload_bytes": end / 8,
			"bits_scanned":  len(bits),
		},
	}, nil
}
