package analyzer

import (
	"errors"
	"math"

	"stegnox/pkg/models"
	"stegnox/pkg/raster"
)

/*
Analyzer.go contains the interface and base implementation for steganalysis detectors.
ImageAnalyzer: interface every detector implements; detectors read the image and never write it.
BaseAnalyzer: struct provides common functionality for analyzers, such as name, description, and supported formats.
Detection: struct holds the confidence score, the verdict derived from it and detector specific statistics.
*/

// ErrNothingProcessed means a detector found no unit of the image it could analyse
var ErrNothingProcessed = errors.New("no analysable data in image")

// Detection contains the outcome of one detector run
type Detection struct {
	Confidence float64           // 0-100
	Assessment models.Assessment // Suspicious or Likely clean
	Statistics interface{}
	Message    string
}

// ImageAnalyzer is the interface that all detectors must implement
type ImageAnalyzer interface {
	// CanAnalyze checks if this analyzer can handle the given format
	CanAnalyze(format string) bool

	// Name returns the name of the analyzer
	Name() string

	// Description returns a detailed description of what the analyzer does
	Description() string

	// SupportedFormats returns a list of file formats this analyzer supports
	SupportedFormats() []string

	// AnalyzeImage scores a decoded image
	AnalyzeImage(img *raster.Image) (*Detection, error)
}

// BaseAnalyzer provides common functionality for analyzers
type BaseAnalyzer struct {
	name        string
	description string
	formats     []string
}

// NewBaseAnalyzer creates a new BaseAnalyzer
func NewBaseAnalyzer(name, description string, formats []string) BaseAnalyzer {
	return BaseAnalyzer{
		name:        name,
		description: description,
		formats:     formats,
	}
}

// Name returns the analyzer name
func (b *BaseAnalyzer) Name() string {
	return b.name
}

// Description returns the analyzer description
func (b *BaseAnalyzer) Description() string {
	return b.description
}

// SupportedFormats returns the supported formats
func (b *BaseAnalyzer) SupportedFormats() []string {
	return b.formats
}

// CanAnalyze checks if the analyzer supports the given format
func (b *BaseAnalyzer) CanAnalyze(format string) bool {
	for _, f := range b.formats {
		if f == format {
			return true
		}
	}
	return false
}

// AllFormats lists every container the file handler can decode
var AllFormats = []string{"png", "jpeg", "gif", "bmp", "tiff", "webp"}

// Assess turns a confidence score into a verdict; the threshold is exclusive
func Assess(confidence, threshold float64) models.Assessment {
	if confidence > threshold {
		return models.AssessmentSuspicious
	}
	return models.AssessmentLikelyClean
}

// BinaryEntropy returns the Shannon entropy in bits of a 0/1 sequence with
// the given number of ones
func BinaryEntropy(ones, total int) float64 {
	if total <= 0 {
		return 0
	}
	oneProb := float64(ones) / float64(total)
	zeroProb := 1 - oneProb

	// Avoid log(0) errors
	if zeroProb <= 0 || oneProb <= 0 {
		return 0
	}

	// Shannon entropy formula: -sum(p_i * log2(p_i))
	return -zeroProb*math.Log2(zeroProb) - oneProb*math.Log2(oneProb)
}
