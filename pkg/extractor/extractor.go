package extractor

import (
	"stegnox/pkg/raster"
)

/*
Extractor.go contains the interface and base implementation for payload extractors.
ImageExtractor: interface every recovery method implements; extraction never mutates the image.
BaseExtractor: struct provides the name and supported formats of an extractor.
Extraction: struct holds recovered text plus method specific metadata.
*/

// Extraction contains the data recovered from a carrier
type Extraction struct {
	// Text is the recovered payload, or a human readable note when nothing was recovered
	Text string
	// Bits is the number of carrier bits consumed
	Bits int
	// Empty reports that the carrier held nothing to recover
	Empty bool
	// Metadata holds method specific details
	Metadata map[string]interface{}
}

// ImageExtractor is the interface that all extractors must implement
type ImageExtractor interface {
	// Name returns the name of the extractor
	Name() string

	// CanExtract checks if this extractor can handle the given format
	CanExtract(format string) bool

	// SupportedFormats returns formats this extractor supports
	SupportedFormats() []string

	// ExtractFromImage recovers hidden data from a decoded image
	ExtractFromImage(img *raster.Image) (*Extraction, error)
}

// BaseExtractor provides common functionality for extractors
type BaseExtractor struct {
	name    string
	formats []string
}

// NewBaseExtractor creates a new BaseExtractor
func NewBaseExtractor(name string, formats []string) BaseExtractor {
	return BaseExtractor{
		name:    name,
		formats: formats,
	}
}

// Name returns the extractor name
func (b *BaseExtractor) Name() string {
	return b.name
}

// SupportedFormats returns the supported formats
func (b *BaseExtractor) SupportedFormats() []string {
	return b.formats
}

// CanExtract checks if the extractor supports the given format
func (b *BaseExtractor) CanExtract(format string) bool {
	for _, f := range b.formats {
		if f == format {
			return true
		}
	}
	return false
}

// PrintableRatio returns the share of bytes that are printable ASCII or
// common whitespace
func PrintableRatio(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	printableCount := 0
	for _, b := range data {
		// "printable" range: [32..126], plus newline, carriage return, tab
		if (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' {
			printableCount++
		}
	}
	return float64(printableCount) / float64(len(data))
}
