package bitplane

import (
	"errors"
	"fmt"
	"image"

	"stegnox/pkg/analyzer"
	"stegnox/pkg/config"
	"stegnox/pkg/raster"
)

// BitsPerChannel is the number of planes per colour channel
const BitsPerChannel = 8

// totalPlanes is the denominator of the confidence score
const totalPlanes = BitsPerChannel * raster.ChannelsPerPixel

// PlaneStats describes one bit plane of one channel
type PlaneStats struct {
	Ones       int     `json:"ones" yaml:"ones"`
	Zeros      int     `json:"zeros" yaml:"zeros"`
	Entropy    float64 `json:"entropy" yaml:"entropy"`
	Suspicious bool    `json:"suspicious" yaml:"suspicious"`
}

// Statistics maps "bit_N" to the per channel plane statistics
type Statistics struct {
	BitPlanes        map[string]map[string]PlaneStats `json:"bit_planes" yaml:"bit_planes"`
	SuspiciousPlanes int                              `json:"suspicious_planes" yaml:"suspicious_planes"`
}

// Plane returns the statistics of one channel at one bit position
func (s Statistics) Plane(c raster.Channel, bit int) PlaneStats {
	return s.BitPlanes[planeKey(bit)][c.String()]
}

func planeKey(bit int) string {
	return fmt.Sprintf("bit_%d", bit)
}

// BitPlaneAnalyzer measures the entropy of every bit plane. Only the least
// significant planes can be suspicious, when they look like coin flips.
type BitPlaneAnalyzer struct {
	analyzer.BaseAnalyzer
	entropy float64
	verdict float64
}

// NewBitPlaneAnalyzer creates a bit-plane analyzer using the given thresholds
func NewBitPlaneAnalyzer(t config.Thresholds) *BitPlaneAnalyzer {
	return &BitPlaneAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"Bit Plane Analyzer",
			"Computes the Shannon entropy of all 24 RGB bit planes and flags near-random LSB planes",
			analyzer.AllFormats,
		),
		entropy: t.BitPlaneEntropy,
		verdict: t.BitPlaneSuspiciousPercent,
	}
}

// AnalyzeImage implements the ImageAnalyzer interface
func (a *BitPlaneAnalyzer) AnalyzeImage(img *raster.Image) (*analyzer.Detection, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}
	total := img.PixelCount()
	if total == 0 {
		return nil, fmt.Errorf("%w: empty image", analyzer.ErrNothingProcessed)
	}

	stats := Statistics{BitPlanes: make(map[string]map[string]PlaneStats, BitsPerChannel)}
	for bit := 0; bit < BitsPerChannel; bit++ {
		channels := make(map[string]PlaneStats, raster.ChannelsPerPixel)
		for _, c := range raster.AllChannels {
			ones := img.BitPlaneOnes(c, uint(bit))
			plane := PlaneStats{
				Ones:    ones,
				Zeros:   total - ones,
				Entropy: analyzer.BinaryEntropy(ones, total),
			}
			plane.Suspicious = bit == 0 && plane.Entropy > a.entropy
			if plane.Suspicious {
				stats.SuspiciousPlanes++
			}
			channels[c.String()] = plane
		}
		stats.BitPlanes[planeKey(bit)] = channels
	}

	confidence := 100 * float64(stats.SuspiciousPlanes) / totalPlanes
	return &analyzer.Detection{
		Confidence: confidence,
		Assessment: analyzer.Assess(confidence, a.verdict),
		Statistics: stats,
		Message:    fmt.Sprintf("Bit plane analysis complete. Confidence that steganography is present: %.2f%%", confidence),
	}, nil
}

// Render returns the plane as a black and white image, set bits white
func Render(img *raster.Image, c raster.Channel, bit int) (*image.Gray, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}
	if bit < 0 || bit >= BitsPerChannel {
		return nil, fmt.Errorf("bit position must be within [0,%d], got %d", BitsPerChannel-1, bit)
	}
	if c < raster.Red || c > raster.Blue {
		return nil, fmt.Errorf("unknown channel %d", c)
	}
	return img.BitPlane(c, uint(bit)), nil
}
